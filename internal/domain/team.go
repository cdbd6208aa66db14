package domain

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

type TeamPatch struct {
	Name        *string
	Description *string
}

func (p TeamPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil
}

// TeamMembership binds a user to at most one team.
type TeamMembership struct {
	CreatedAt time.Time `json:"created_at"`
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TeamID    uuid.UUID `json:"team_id"`
}

type TeamMember struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}
