package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProgressEntry is one training-progress note a coach records for a player.
type ProgressEntry struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlayerId  uuid.UUID
	CoachId   uuid.UUID
	Title     string
	Category  string
	Score     int
	Notes     string
	CreatedAt time.Time
}
