package dto

import (
	"time"

	"github.com/google/uuid"
)

type RateCoachRequest struct {
	CoachId uuid.UUID `json:"coach_id" validate:"required"`
	Stars   int       `json:"stars" validate:"required,min=1,max=5"`
	Comment string    `json:"comment" validate:"max=1000"`
}

type RatingResponse struct {
	Id        uuid.UUID  `json:"id"`
	CoachId   uuid.UUID  `json:"coach_id"`
	PlayerId  uuid.UUID  `json:"player_id"`
	Stars     int        `json:"stars"`
	Comment   string     `json:"comment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type CoachRatingResponse struct {
	CoachId uuid.UUID `json:"coach_id"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
}
