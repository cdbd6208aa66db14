package service

import (
	"context"
	"fmt"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
)

type TeamService struct {
	teamRepo TeamRepository
	now      func() time.Time
}

func NewTeamService(teamRepo TeamRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateTeam relies on the store's unique index for name collisions.
func (s *TeamService) CreateTeam(ctx context.Context, name string, description *string) (*domain.Team, error) {
	now := s.now()
	team := &domain.Team{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.teamRepo.CreateTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

func (s *TeamService) GetAllTeams(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teamRepo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all teams: %w", err)
	}
	return teams, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, teamID uuid.UUID, patch domain.TeamPatch) (*domain.Team, error) {
	if patch.IsEmpty() {
		return nil, my_errors.ErrEmptyPatch
	}

	team, err := s.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if patch.Name != nil {
		team.Name = *patch.Name
	}
	if patch.Description != nil {
		team.Description = patch.Description
	}
	team.UpdatedAt = s.now()

	if err := s.teamRepo.UpdateTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return team, nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, teamID uuid.UUID) error {
	if err := s.teamRepo.DeleteTeam(ctx, teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}
