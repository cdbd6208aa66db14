// Package authz decides whether a principal may perform an action, either by
// organizational role or by being the assignee of the task the action targets.
package authz

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
)

// TaskLookup is the slice of the directory store the resolver needs.
type TaskLookup interface {
	GetTaskByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
}

// Source identifies which strategy produced a decision.
type Source string

const (
	SourceRole       Source = "role"
	SourceAssignment Source = "assignment"
)

// Decision is the tagged outcome of an authorization attempt. When Allowed is
// false, Err carries the failure of the strategy named by Source.
type Decision struct {
	Source  Source
	Err     error
	Allowed bool
}

func allow(src Source) Decision { return Decision{Allowed: true, Source: src} }

func deny(src Source, err error) Decision { return Decision{Source: src, Err: err} }

type Resolver struct {
	tasks TaskLookup
}

func NewResolver(tasks TaskLookup) *Resolver {
	return &Resolver{tasks: tasks}
}

// CheckRole allows iff the principal's role is one of required.
func (r *Resolver) CheckRole(principal *domain.Principal, required []domain.Role) Decision {
	if principal == nil {
		return deny(SourceRole, my_errors.ErrNotAuthenticated)
	}
	if !slices.Contains(required, principal.Role) {
		return deny(SourceRole, my_errors.ErrRoleNotAllowed)
	}
	return allow(SourceRole)
}

// CheckAssignment allows iff the task exists and is assigned to the principal.
// The task is resolved before the principal is inspected, so a missing task
// reports NotFound even for anonymous callers.
func (r *Resolver) CheckAssignment(ctx context.Context, principal *domain.Principal, taskID uuid.UUID) Decision {
	task, err := r.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, my_errors.ErrNotFound) {
			err = fmt.Errorf("failed to load task for assignment check: %w", err)
		}
		return deny(SourceAssignment, err)
	}
	if principal == nil {
		return deny(SourceAssignment, my_errors.ErrNotAuthenticated)
	}
	if task.AssignedTo == nil || *task.AssignedTo != principal.ID {
		return deny(SourceAssignment, my_errors.ErrNotTaskAssignee)
	}
	return allow(SourceAssignment)
}

// RoleOnly gates actions that have no notion of an assignee.
func (r *Resolver) RoleOnly(principal *domain.Principal, required []domain.Role) Decision {
	return r.CheckRole(principal, required)
}

// RoleOrAssignment tries the role check, then the assignment check. On total
// denial the assignment failure is the one reported.
func (r *Resolver) RoleOrAssignment(ctx context.Context, principal *domain.Principal, required []domain.Role, taskID uuid.UUID) Decision {
	if d := r.CheckRole(principal, required); d.Allowed {
		return d
	}
	return r.CheckAssignment(ctx, principal, taskID)
}

// Authorize picks the mode from the presence of a task id.
func (r *Resolver) Authorize(ctx context.Context, principal *domain.Principal, required []domain.Role, taskID *uuid.UUID) Decision {
	if taskID == nil {
		return r.RoleOnly(principal, required)
	}
	return r.RoleOrAssignment(ctx, principal, required, *taskID)
}
