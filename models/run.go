package models

import "time"

type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ResolveRun is the operational log row written for every resolve call.
type ResolveRun struct {
	ID             int64     `json:"id" db:"id"`
	RawText        string    `json:"raw_text" db:"raw_text"`
	Status         RunStatus `json:"status" db:"status"`
	UsedFallback   bool      `json:"used_fallback" db:"used_fallback"`
	InventoryCount int       `json:"inventory_count" db:"inventory_count"`
	LinkCount      int       `json:"link_count" db:"link_count"`
	ScrapedCount   int       `json:"scraped_count" db:"scraped_count"`
	DurationMS     int64     `json:"duration_ms" db:"duration_ms"`
	StartedAt      time.Time `json:"started_at" db:"started_at"`
}
