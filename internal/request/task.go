package request

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string  `json:"priority" validate:"required,oneof=low medium high"`
	TeamID      string  `json:"team_id" validate:"required,uuid"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	TeamID      *string `json:"team_id" validate:"omitempty,uuid"`
	AssignedTo  *string `json:"assigned_to" validate:"omitempty,uuid"`
}

type AssignTaskRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ListTasksQuery is decoded from the query string of GET /tasks.
type ListTasksQuery struct {
	Status     string `validate:"omitempty,oneof=pending in_progress completed"`
	Priority   string `validate:"omitempty,oneof=low medium high"`
	TeamID     string `validate:"omitempty,uuid"`
	AssignedTo string `validate:"omitempty,uuid"`
}
