package service

import (
	"context"

	"task-manager/internal/domain"
	"task-manager/internal/store"

	"github.com/google/uuid"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	SetUserRole(ctx context.Context, userID uuid.UUID, role domain.Role) error
}

type TeamRepository interface {
	CreateTeam(ctx context.Context, team *domain.Team) error
	GetTeamByID(ctx context.Context, teamID uuid.UUID) (*domain.Team, error)
	TeamExists(ctx context.Context, teamID uuid.UUID) (bool, error)
	ListTeams(ctx context.Context) ([]domain.Team, error)
	UpdateTeam(ctx context.Context, team *domain.Team) error
	DeleteTeam(ctx context.Context, teamID uuid.UUID) error
}

type MembershipRepository interface {
	MembershipLookup
	AddMember(ctx context.Context, membership *domain.TeamMembership) error
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.TeamMember, error)
	RemoveMember(ctx context.Context, userID, teamID uuid.UUID) error
}

type TaskRepository interface {
	store.TxRunner
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTaskByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	ListHistory(ctx context.Context, taskID uuid.UUID) ([]domain.TaskHistoryRecord, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) error
}

type TeamRepositoryForTask interface {
	TeamExists(ctx context.Context, teamID uuid.UUID) (bool, error)
}

type UserRepositoryForMembership interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type UserRepositoryForAuth interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
