package repository

import (
	"context"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err, "failed to create user", nil)
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getUser(ctx, query, userID)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.getUser(ctx, query, email)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "failed to get user", my_errors.ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
        UPDATE users
        SET name = $1, email = $2, password_hash = $3, updated_at = $4
        WHERE id = $5
    `
	result, err := r.pool.Exec(ctx, query, user.Name, user.Email, user.PasswordHash, user.UpdatedAt, user.ID)
	if err != nil {
		return mapError(err, "failed to update user", nil)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user. Memberships and authored history go with it,
// assignments are cleared by the assigned_to foreign key.
func (r *UserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return mapError(err, "failed to delete user", nil)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetUserRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	query := `
        UPDATE users
        SET role = $1, updated_at = NOW()
        WHERE id = $2
    `
	result, err := r.pool.Exec(ctx, query, role, userID)
	if err != nil {
		return mapError(err, "failed to set user role", nil)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrUserNotFound
	}
	return nil
}
