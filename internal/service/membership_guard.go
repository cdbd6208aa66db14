package service

import (
	"context"
	"fmt"

	"task-manager/internal/domain"

	"github.com/google/uuid"
)

// MembershipLookup resolves the single team membership of a user.
// A user without a team yields (nil, nil).
type MembershipLookup interface {
	GetMembershipByUser(ctx context.Context, userID uuid.UUID) (*domain.TeamMembership, error)
}

// IsMember reports whether userID currently belongs to teamID. The lookup is
// keyed by user alone since a user holds at most one membership.
func IsMember(ctx context.Context, lookup MembershipLookup, teamID, userID uuid.UUID) (bool, error) {
	membership, err := lookup.GetMembershipByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to look up membership: %w", err)
	}
	return membership != nil && membership.TeamID == teamID, nil
}
