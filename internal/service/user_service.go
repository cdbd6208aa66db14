package service

import (
	"context"
	"fmt"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   UserRepository
	bcryptCost int
	now        func() time.Time
}

func NewUserService(userRepo UserRepository, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, my_errors.ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserService) UpdateSelf(ctx context.Context, principal *domain.Principal, patch domain.UserPatch) (*domain.User, error) {
	if principal == nil {
		return nil, my_errors.ErrNotAuthenticated
	}
	if patch.IsEmpty() {
		return nil, my_errors.ErrEmptyPatch
	}

	user, err := s.userRepo.GetUserByID(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if patch.Email != nil && *patch.Email != user.Email {
		other, err := s.userRepo.GetUserByEmail(ctx, *patch.Email)
		if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if other != nil {
			return nil, my_errors.ErrEmailInUse
		}
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *UserService) DeleteSelf(ctx context.Context, principal *domain.Principal) error {
	if principal == nil {
		return my_errors.ErrNotAuthenticated
	}
	if err := s.userRepo.DeleteUser(ctx, principal.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserService) SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, my_errors.ErrInvalidRole
	}

	if err := s.userRepo.SetUserRole(ctx, userID, role); err != nil {
		return nil, fmt.Errorf("failed to set user role: %w", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
