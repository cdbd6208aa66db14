package domain

import "time"

// Session is the result of a successful login.
type Session struct {
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
}
