package repository

import (
	"context"
	"errors"
	"fmt"

	"task-manager/internal/my_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the store reacts to.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeAdminShutdown        = "57P01"
)

var uniqueConstraints = map[string]error{
	"users_email_key":          my_errors.ErrEmailInUse,
	"teams_name_key":           my_errors.ErrTeamAlreadyExists,
	"team_members_user_id_key": my_errors.ErrAlreadyTeamMember,
}

var foreignKeyConstraints = map[string]error{
	"team_members_user_id_fkey":    my_errors.ErrUserNotFound,
	"team_members_team_id_fkey":    my_errors.ErrTeamNotFound,
	"tasks_team_id_fkey":           my_errors.ErrTeamNotFound,
	"tasks_assigned_to_fkey":       my_errors.ErrUserNotFound,
	"task_history_task_id_fkey":    my_errors.ErrTaskNotFound,
	"task_history_changed_by_fkey": my_errors.ErrUserNotFound,
}

// mapError translates driver errors into business errors. notFound is
// returned for pgx.ErrNoRows; other errors are wrapped with op.
func mapError(err error, op string, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if mapped, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
				return mapped
			}
			return fmt.Errorf("%s: %w: %s", op, my_errors.ErrConflict, pgErr.Message)
		case codeForeignKeyViolation:
			if mapped, ok := foreignKeyConstraints[pgErr.ConstraintName]; ok {
				return mapped
			}
			return fmt.Errorf("%s: %w: %s", op, my_errors.ErrNotFound, pgErr.Message)
		case codeSerializationFailure, codeDeadlockDetected, codeAdminShutdown:
			return fmt.Errorf("%s: %w: %w", op, my_errors.ErrStoreUnavailable, err)
		}
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "08" {
			return fmt.Errorf("%s: %w: %w", op, my_errors.ErrStoreUnavailable, err)
		}
	}

	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, my_errors.ErrStoreUnavailable, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%s: %w: %w", op, my_errors.ErrStoreUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
