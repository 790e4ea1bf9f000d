package entity

import (
	"time"

	"github.com/google/uuid"
)

type Rating struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CoachId   uuid.UUID
	PlayerId  uuid.UUID
	Stars     int
	Comment   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// CoachRating aggregates the ratings of one coach. Zero ratings is a valid
// empty state, not an error.
type CoachRating struct {
	CoachId uuid.UUID
	Average float64
	Count   int
}
