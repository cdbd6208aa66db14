package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"
	"task-manager/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = `id, title, description, status, priority, team_id, assigned_to, created_at, updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.TeamID,
		&task.AssignedTo,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *domain.Task) error {
	query := `
        INSERT INTO tasks (` + taskColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.pool.Exec(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.TeamID, task.AssignedTo, task.CreatedAt, task.UpdatedAt,
	)
	return mapError(err, "failed to create task", nil)
}

func (r *TaskRepository) GetTaskByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID))
	if err != nil {
		return nil, mapError(err, "failed to get task", my_errors.ErrTaskNotFound)
	}
	return task, nil
}

// ListTasks ANDs every non-nil filter field.
func (r *TaskRepository) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	var (
		conditions []string
		args       []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.Status != nil {
		add("status", *filter.Status)
	}
	if filter.Priority != nil {
		add("priority", *filter.Priority)
	}
	if filter.TeamID != nil {
		add("team_id", *filter.TeamID)
	}
	if filter.AssignedTo != nil {
		add("assigned_to", *filter.AssignedTo)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to list tasks", nil)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan task", nil)
		}
		tasks = append(tasks, *task)
	}
	return tasks, mapError(rows.Err(), "failed to iterate tasks", nil)
}

// ListHistory returns the task's transitions newest first. seq is assigned
// while the task row is locked, so it follows commit order.
func (r *TaskRepository) ListHistory(ctx context.Context, taskID uuid.UUID) ([]domain.TaskHistoryRecord, error) {
	query := `
        SELECT h.id, h.task_id, h.changed_by, h.previous_status, h.new_status, h.changed_at,
               u.name, u.email
        FROM task_history h
        LEFT JOIN users u ON u.id = h.changed_by
        WHERE h.task_id = $1
        ORDER BY h.seq DESC
    `
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, mapError(err, "failed to get task history", nil)
	}
	defer rows.Close()

	records := []domain.TaskHistoryRecord{}
	for rows.Next() {
		var (
			rec         domain.TaskHistoryRecord
			changedBy   *uuid.UUID
			name, email *string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.TaskID,
			&changedBy,
			&rec.PreviousStatus,
			&rec.NewStatus,
			&rec.ChangedAt,
			&name,
			&email,
		); err != nil {
			return nil, mapError(err, "failed to scan history entry", nil)
		}
		if changedBy != nil && name != nil && email != nil {
			rec.ChangedBy = *changedBy
			rec.Actor = &domain.HistoryActor{ID: *changedBy, Name: *name, Email: *email}
		}
		records = append(records, rec)
	}
	return records, mapError(rows.Err(), "failed to iterate history", nil)
}

// DeleteTask removes the task together with its history.
func (r *TaskRepository) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return mapError(err, "failed to delete task", nil)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrTaskNotFound
	}
	return nil
}

// WithinTx runs fn in a READ COMMITTED transaction. Rows read through
// GetTaskForUpdate and GetMembershipByUser stay locked until commit.
func (r *TaskRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.TaskTx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError(err, "failed to begin transaction", nil)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(ctx, &pgTaskTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "failed to commit transaction", nil)
	}
	return nil
}

type pgTaskTx struct {
	tx pgx.Tx
}

func (t *pgTaskTx) GetTaskForUpdate(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`
	task, err := scanTask(t.tx.QueryRow(ctx, query, taskID))
	if err != nil {
		return nil, mapError(err, "failed to lock task", my_errors.ErrTaskNotFound)
	}
	return task, nil
}

func (t *pgTaskTx) TeamExists(ctx context.Context, teamID uuid.UUID) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, teamID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "failed to check team existence", nil)
	}
	return exists, nil
}

func (t *pgTaskTx) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "failed to check user existence", nil)
	}
	return exists, nil
}

func (t *pgTaskTx) GetMembershipByUser(ctx context.Context, userID uuid.UUID) (*domain.TeamMembership, error) {
	return getMembershipByUser(ctx, t.tx, userID, "FOR SHARE")
}

func (t *pgTaskTx) UpdateTask(ctx context.Context, task *domain.Task) error {
	query := `
        UPDATE tasks
        SET title = $1, description = $2, status = $3, priority = $4,
            team_id = $5, assigned_to = $6, updated_at = $7
        WHERE id = $8
    `
	result, err := t.tx.Exec(ctx, query,
		task.Title, task.Description, task.Status, task.Priority,
		task.TeamID, task.AssignedTo, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return mapError(err, "failed to update task", nil)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrTaskNotFound
	}
	return nil
}

// InsertHistory stamps the entry with the database clock.
func (t *pgTaskTx) InsertHistory(ctx context.Context, entry *domain.TaskHistoryEntry) error {
	query := `
        INSERT INTO task_history (id, task_id, changed_by, previous_status, new_status, changed_at)
        VALUES ($1, $2, $3, $4, $5, clock_timestamp())
        RETURNING changed_at
    `
	err := t.tx.QueryRow(ctx, query,
		entry.ID, entry.TaskID, entry.ChangedBy, entry.PreviousStatus, entry.NewStatus,
	).Scan(&entry.ChangedAt)
	return mapError(err, "failed to insert history entry", nil)
}
