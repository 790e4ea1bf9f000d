package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddProgressRequest struct {
	PlayerId uuid.UUID `json:"player_id" validate:"required"`
	Title    string    `json:"title" validate:"required,max=255"`
	Category string    `json:"category" validate:"max=64"`
	Score    int       `json:"score" validate:"gte=0,lte=100"`
	Notes    string    `json:"notes"`
}

type ProgressEntryResponse struct {
	Id        uuid.UUID `json:"id"`
	PlayerId  uuid.UUID `json:"player_id"`
	CoachId   uuid.UUID `json:"coach_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category,omitempty"`
	Score     int       `json:"score"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
