// Package queue defines message payloads exchanged over the message broker.
package queue

// CallCreatedEvent is published when a helpdesk call is opened. It
// carries enough information for downstream consumers to log or
// notify without querying the primary database.
type CallCreatedEvent struct {
	CallID     int64  `json:"call_id"`
	Title      string `json:"title"`
	UserID     int64  `json:"user_id"`
	UserName   string `json:"user_name"`
	SectorID   int64  `json:"sector_id"`
	SectorName string `json:"sector_name"`
	CreatedAt  string `json:"created_at"`
}
