package service

import (
	"context"
	"testing"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newMemoryStore()
	users := NewUserService(s, bcrypt.MinCost)
	auth := NewAuthService(s, "test-secret", time.Hour)
	ctx := context.Background()

	user, err := users.Register(ctx, "Ana", "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	_, err = users.Register(ctx, "Other", "ana@example.com", "secret123")
	assert.ErrorIs(t, err, my_errors.ErrEmailInUse)

	session, err := auth.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.User.ID)

	principal, err := auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, domain.RoleMember, principal.Role)

	_, err = auth.Login(ctx, "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, my_errors.ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, my_errors.ErrInvalidCredentials)
}

func TestAuthenticate_RoleComesFromStore(t *testing.T) {
	s := newMemoryStore()
	users := NewUserService(s, bcrypt.MinCost)
	auth := NewAuthService(s, "test-secret", time.Hour)
	ctx := context.Background()

	user, err := users.Register(ctx, "Ana", "ana@example.com", "secret123")
	require.NoError(t, err)
	session, err := auth.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)

	_, err = users.SetRole(ctx, user.ID, domain.RoleManager)
	require.NoError(t, err)

	principal, err := auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, principal.Role)

	require.NoError(t, users.DeleteSelf(ctx, principal))
	_, err = auth.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, my_errors.ErrInvalidToken)
}

func TestAuthenticate_BadToken(t *testing.T) {
	auth := NewAuthService(newMemoryStore(), "test-secret", time.Hour)

	_, err := auth.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, my_errors.ErrUnauthenticated)
}

func TestUpdateSelf(t *testing.T) {
	s := newMemoryStore()
	users := NewUserService(s, bcrypt.MinCost)
	ctx := context.Background()

	ana, err := users.Register(ctx, "Ana", "ana@example.com", "secret123")
	require.NoError(t, err)
	_, err = users.Register(ctx, "Bia", "bia@example.com", "secret123")
	require.NoError(t, err)
	principal := &domain.Principal{ID: ana.ID, Role: ana.Role}

	_, err = users.UpdateSelf(ctx, principal, domain.UserPatch{})
	assert.ErrorIs(t, err, my_errors.ErrEmptyPatch)

	taken := "bia@example.com"
	_, err = users.UpdateSelf(ctx, principal, domain.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, my_errors.ErrEmailInUse)

	name := "Ana Maria"
	password := "another-secret"
	updated, err := users.UpdateSelf(ctx, principal, domain.UserPatch{Name: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(password)))

	_, err = users.UpdateSelf(ctx, nil, domain.UserPatch{Name: &name})
	assert.ErrorIs(t, err, my_errors.ErrNotAuthenticated)
}

func TestSetRole(t *testing.T) {
	s := newMemoryStore()
	users := NewUserService(s, bcrypt.MinCost)
	ctx := context.Background()

	_, err := users.SetRole(ctx, uuid.New(), domain.Role("owner"))
	assert.ErrorIs(t, err, my_errors.ErrInvalidRole)

	_, err = users.SetRole(ctx, uuid.New(), domain.RoleAdmin)
	assert.ErrorIs(t, err, my_errors.ErrUserNotFound)
}
