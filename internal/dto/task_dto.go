package dto

import "time"

type TaskDTO struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	TeamID      string    `json:"team_id"`
	AssignedTo  *string   `json:"assigned_to"`
}

type TaskHistoryDTO struct {
	ChangedAt      time.Time `json:"changed_at"`
	ID             string    `json:"id"`
	TaskID         string    `json:"task_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	User           *ActorDTO `json:"user"`
}
