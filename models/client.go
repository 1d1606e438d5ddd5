package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a CRM contact. The resolver only finds-or-creates clients when a
// search is persisted.
type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Search is the durable record of a resolved inquiry: the raw message plus
// the criteria rendered as human-readable annotations.
type Search struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ClientID    uuid.UUID  `json:"client_id" db:"client_id"`
	RawText     string     `json:"raw_text" db:"raw_text"`
	Annotations string     `json:"annotations" db:"annotations"`
	Active      bool       `json:"active" db:"active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LastRunAt   *time.Time `json:"last_run_at" db:"last_run_at"`
}
