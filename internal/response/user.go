package response

import (
	"time"

	"task-manager/internal/dto"
)

type UserResponse struct {
	User dto.UserDTO `json:"user"`
}

type SessionResponse struct {
	ExpiresAt time.Time   `json:"expires_at"`
	Token     string      `json:"token"`
	User      dto.UserDTO `json:"user"`
}
