package model

import "time"

// Sector is an organizational unit that calls are routed to. Static
// lookup data maintained by admins.
type Sector struct {
	ID            int64     // sectors.id
	Name          string    // sectors.name
	Status        bool      // sectors.status
	CreatedAt     time.Time // sectors.created_at
	LastUpdatedAt time.Time // sectors.last_updated_at
}
