package model

import "time"

// Call is a helpdesk ticket opened by a user against a sector. Status
// follows the workflow used by the admin UI (OPEN, IN_PROGRESS,
// CLOSED).
type Call struct {
	ID            int64     // calls.id
	Title         string    // calls.title
	Description   string    // calls.description
	Status        string    // calls.status
	UserID        int64     // calls.user_id
	SectorID      int64     // calls.sector_id
	CreatedAt     time.Time // calls.created_at
	LastUpdatedAt time.Time // calls.last_updated_at
}

// Call status values.
const (
	CallStatusOpen       = "OPEN"
	CallStatusInProgress = "IN_PROGRESS"
	CallStatusClosed     = "CLOSED"
)
