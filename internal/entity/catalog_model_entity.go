package entity

import (
	"time"

	"github.com/google/uuid"
)

// CatalogModel is one entry of the curated AI model dataset the recommender
// selects from.
type CatalogModel struct {
	Id        uuid.UUID
	Name      string
	Provider  string
	TaskTypes string // comma-separated task kinds, e.g. "summarization,chat"
	Notes     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
