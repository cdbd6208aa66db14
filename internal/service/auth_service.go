package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/jwt"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  UserRepositoryForAuth
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(userRepo UserRepositoryForAuth, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Login checks credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, my_errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, my_errors.ErrInvalidCredentials
	}

	token, expiresAt, err := jwt.GenerateToken(user.ID.String(), s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &domain.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
	}, nil
}

// Authenticate resolves a bearer token to a principal. The role is read from
// the store so a role change applies to tokens issued before it.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.Principal, error) {
	claims, err := jwt.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, my_errors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, my_errors.ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, my_errors.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &domain.Principal{ID: user.ID, Role: user.Role}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, my_errors.ErrNotFound)
}
