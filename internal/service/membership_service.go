package service

import (
	"context"
	"fmt"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
)

type MembershipService struct {
	memberRepo MembershipRepository
	userRepo   UserRepositoryForMembership
	teamRepo   TeamRepositoryForTask
	now        func() time.Time
}

func NewMembershipService(memberRepo MembershipRepository, userRepo UserRepositoryForMembership, teamRepo TeamRepositoryForTask) *MembershipService {
	return &MembershipService{
		memberRepo: memberRepo,
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// AddMember puts userID in teamID. The pre-check gives a readable error; the
// unique index on user_id is what actually enforces one team per user.
func (s *MembershipService) AddMember(ctx context.Context, userID, teamID uuid.UUID) (*domain.TeamMembership, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}

	existing, err := s.memberRepo.GetMembershipByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, my_errors.ErrAlreadyTeamMember
	}

	membership := &domain.TeamMembership{
		ID:        uuid.New(),
		UserID:    userID,
		TeamID:    teamID,
		CreatedAt: s.now(),
	}
	if err := s.memberRepo.AddMember(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	return membership, nil
}

func (s *MembershipService) ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.TeamMember, error) {
	if err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

func (s *MembershipService) RemoveMember(ctx context.Context, userID, teamID uuid.UUID) error {
	if err := s.memberRepo.RemoveMember(ctx, userID, teamID); err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return nil
}

func (s *MembershipService) requireTeam(ctx context.Context, teamID uuid.UUID) error {
	exists, err := s.teamRepo.TeamExists(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to check team existence: %w", err)
	}
	if !exists {
		return my_errors.ErrTeamNotFound
	}
	return nil
}
