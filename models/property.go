package models

import (
	"time"

	"github.com/google/uuid"
)

const PropertyStatusPublished = "published"

// Property is an internal inventory record. The resolver only ever reads
// these; creation and editing happen in the agency's CRM.
type Property struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	PropertyType string    `json:"property_type" db:"property_type"`
	Subtype      string    `json:"subtype" db:"subtype"`
	Price        *float64  `json:"price" db:"price"`
	Currency     string    `json:"currency" db:"currency"`
	Address      string    `json:"address" db:"address"`
	Neighborhood string    `json:"neighborhood" db:"neighborhood"`
	City         string    `json:"city" db:"city"`
	Bedrooms     *int      `json:"bedrooms" db:"bedrooms"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
