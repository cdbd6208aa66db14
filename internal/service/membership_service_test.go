package service

import (
	"context"
	"testing"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMember_OneTeamPerUser(t *testing.T) {
	s := newMemoryStore()
	svc := NewMembershipService(s, s, s)
	ctx := context.Background()

	teamA := s.seedTeam("A")
	teamB := s.seedTeam("B")
	user := s.seedUser("Dev", domain.RoleMember)

	membership, err := svc.AddMember(ctx, user.ID, teamA.ID)
	require.NoError(t, err)
	assert.Equal(t, teamA.ID, membership.TeamID)

	_, err = svc.AddMember(ctx, user.ID, teamB.ID)
	assert.ErrorIs(t, err, my_errors.ErrAlreadyTeamMember)
	assert.ErrorIs(t, err, my_errors.ErrConflict)

	_, err = svc.AddMember(ctx, user.ID, teamA.ID)
	assert.ErrorIs(t, err, my_errors.ErrConflict)
}

func TestAddMember_MissingEntities(t *testing.T) {
	s := newMemoryStore()
	svc := NewMembershipService(s, s, s)
	ctx := context.Background()

	team := s.seedTeam("A")
	user := s.seedUser("Dev", domain.RoleMember)

	_, err := svc.AddMember(ctx, uuid.New(), team.ID)
	assert.ErrorIs(t, err, my_errors.ErrUserNotFound)

	_, err = svc.AddMember(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, my_errors.ErrTeamNotFound)
}

func TestListAndRemoveMembers(t *testing.T) {
	s := newMemoryStore()
	svc := NewMembershipService(s, s, s)
	ctx := context.Background()

	team := s.seedTeam("A")
	other := s.seedTeam("B")
	manager := s.seedUser("Lead", domain.RoleManager)
	member := s.seedUser("Dev", domain.RoleMember)
	s.seedMembership(manager.ID, team.ID)
	s.seedMembership(member.ID, team.ID)

	members, err := svc.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, domain.RoleManager, members[0].Role)

	_, err = svc.ListMembers(ctx, uuid.New())
	assert.ErrorIs(t, err, my_errors.ErrTeamNotFound)

	err = svc.RemoveMember(ctx, member.ID, other.ID)
	assert.ErrorIs(t, err, my_errors.ErrMemberNotFound)

	require.NoError(t, svc.RemoveMember(ctx, member.ID, team.ID))

	// free to join another team now
	_, err = svc.AddMember(ctx, member.ID, other.ID)
	assert.NoError(t, err)
}

func TestIsMember_KeyedByUser(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	teamA := s.seedTeam("A")
	teamB := s.seedTeam("B")
	user := s.seedUser("Dev", domain.RoleMember)
	s.seedMembership(user.ID, teamA.ID)

	ok, err := IsMember(ctx, s, teamA.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsMember(ctx, s, teamB.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = IsMember(ctx, s, teamA.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}
