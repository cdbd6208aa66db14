package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"
	"task-manager/internal/store"

	"github.com/google/uuid"
)

type TaskService struct {
	taskRepo TaskRepository
	teamRepo TeamRepositoryForTask
	now      func() time.Time
	newID    func() uuid.UUID
}

func NewTaskService(taskRepo TaskRepository, teamRepo TeamRepositoryForTask) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		teamRepo: teamRepo,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.New,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	exists, err := s.teamRepo.TeamExists(ctx, input.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to check team existence: %w", err)
	}
	if !exists {
		return nil, my_errors.ErrTeamNotFound
	}

	status := input.Status
	if status == "" {
		status = domain.StatusPending
	}

	now := s.now()
	task := &domain.Task{
		ID:          s.newID(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    input.Priority,
		TeamID:      input.TeamID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	tasks, err := s.taskRepo.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// AssignTask makes userID the assignee. The task row stays locked while the
// user's membership is checked, so a concurrent team change cannot slip in.
func (s *TaskService) AssignTask(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error) {
	var assigned *domain.Task

	err := s.taskRepo.WithinTx(ctx, func(ctx context.Context, tx store.TaskTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}

		if err := checkAssignee(ctx, tx, task.TeamID, userID); err != nil {
			return err
		}

		task.AssignedTo = &userID
		task.UpdatedAt = s.now()
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}

		assigned = task
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return assigned, nil
}

// UpdateTask applies patch as a single write and, when the status observably
// changes, appends one history entry in the same transaction.
func (s *TaskService) UpdateTask(ctx context.Context, principal *domain.Principal, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	if principal == nil {
		return nil, my_errors.ErrNotAuthenticated
	}
	if patch.IsEmpty() {
		return nil, my_errors.ErrEmptyPatch
	}

	var (
		updated *domain.Task
		entry   *domain.TaskHistoryEntry
	)

	err := s.taskRepo.WithinTx(ctx, func(ctx context.Context, tx store.TaskTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		previousStatus := task.Status

		switch {
		case patch.TeamID != nil && *patch.TeamID != task.TeamID:
			exists, err := tx.TeamExists(ctx, *patch.TeamID)
			if err != nil {
				return err
			}
			if !exists {
				return my_errors.ErrTeamNotFound
			}
			// membership does not carry over to the new team
			task.TeamID = *patch.TeamID
			task.AssignedTo = nil
		case patch.AssignedTo != nil:
			if err := checkAssignee(ctx, tx, task.TeamID, *patch.AssignedTo); err != nil {
				return err
			}
			assignee := *patch.AssignedTo
			task.AssignedTo = &assignee
		}

		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = patch.Description
		}
		if patch.Priority != nil {
			task.Priority = *patch.Priority
		}
		if patch.Status != nil {
			task.Status = *patch.Status
		}

		now := s.now()
		task.UpdatedAt = now
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}

		if patch.Status != nil && *patch.Status != previousStatus {
			entry = &domain.TaskHistoryEntry{
				ID:             s.newID(),
				TaskID:         task.ID,
				ChangedBy:      principal.ID,
				PreviousStatus: previousStatus,
				NewStatus:      *patch.Status,
				ChangedAt:      now,
			}
			if err := tx.InsertHistory(ctx, entry); err != nil {
				return err
			}
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if entry != nil {
		slog.InfoContext(ctx, "task status changed",
			slog.String("task_id", entry.TaskID.String()),
			slog.String("changed_by", entry.ChangedBy.String()),
			slog.String("previous_status", string(entry.PreviousStatus)),
			slog.String("new_status", string(entry.NewStatus)),
		)
	}

	return updated, nil
}

func (s *TaskService) TaskHistory(ctx context.Context, taskID uuid.UUID) ([]domain.TaskHistoryRecord, error) {
	if _, err := s.taskRepo.GetTaskByID(ctx, taskID); err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	history, err := s.taskRepo.ListHistory(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task history: %w", err)
	}
	return history, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	if err := s.taskRepo.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func checkAssignee(ctx context.Context, tx store.TaskTx, teamID, userID uuid.UUID) error {
	exists, err := tx.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return my_errors.ErrUserNotFound
	}

	member, err := IsMember(ctx, tx, teamID, userID)
	if err != nil {
		return err
	}
	if !member {
		return my_errors.ErrNotTeamMember
	}
	return nil
}
