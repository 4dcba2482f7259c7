package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-model-advisor-be/pkg/store"
)

// AdvisorTurn is one row of the append-only per-user turn log. Reply rows
// carry the finalized recommendation when the turn produced one.
type AdvisorTurn struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Role           string
	Content        string
	Recommendation *store.Recommendation
	CreatedAt      time.Time
}
