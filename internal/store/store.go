// Package store declares the transactional contract shared by the task
// lifecycle service and its PostgreSQL implementation.
package store

import (
	"context"

	"task-manager/internal/domain"

	"github.com/google/uuid"
)

// TaskTx is a unit of work over the directory store. Everything read through
// it stays consistent until the surrounding transaction commits or rolls back.
type TaskTx interface {
	// GetTaskForUpdate loads the task and holds its row lock until the end of the transaction.
	GetTaskForUpdate(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
	TeamExists(ctx context.Context, teamID uuid.UUID) (bool, error)
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	// GetMembershipByUser returns nil without error when the user has no team.
	GetMembershipByUser(ctx context.Context, userID uuid.UUID) (*domain.TeamMembership, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	InsertHistory(ctx context.Context, entry *domain.TaskHistoryEntry) error
}

// TxRunner runs fn inside a transaction. fn returning an error rolls back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx TaskTx) error) error
}
