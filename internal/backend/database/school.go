package database

import "time"

// School is the sole persisted entity. Rows are append-only: once created
// they are never updated or deleted, and ids are never reused.
type School struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Contact   int64     `json:"contact"`
	Email     string    `json:"email_id"`
	Image     string    `json:"image,omitempty"` // opaque asset reference, never raw bytes
	CreatedAt time.Time `json:"created_at"`
}
