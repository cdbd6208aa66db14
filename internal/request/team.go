package request

type CreateTeamRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type TeamMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	TeamID string `json:"team_id" validate:"required,uuid"`
}
