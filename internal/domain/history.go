package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskHistoryEntry is an immutable record of one status transition.
type TaskHistoryEntry struct {
	ChangedAt      time.Time  `json:"changed_at"`
	ID             uuid.UUID  `json:"id"`
	TaskID         uuid.UUID  `json:"task_id"`
	ChangedBy      uuid.UUID  `json:"changed_by"`
	PreviousStatus TaskStatus `json:"previous_status"`
	NewStatus      TaskStatus `json:"new_status"`
}

type HistoryActor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// TaskHistoryRecord is a history entry joined with the acting user. Entries
// outlive their author: once the user is deleted, ChangedBy is uuid.Nil and
// Actor is nil.
type TaskHistoryRecord struct {
	TaskHistoryEntry
	Actor *HistoryActor `json:"user"`
}
