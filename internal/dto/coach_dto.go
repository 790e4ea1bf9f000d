package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertCoachProfileRequest struct {
	Bio          string `json:"bio"`
	Achievements string `json:"achievements"`
	Specialty    string `json:"specialty" validate:"required"`
	City         string `json:"city" validate:"required"`
	PricePerHour int64  `json:"price_per_hour" validate:"required,gt=0"`
}

type CoachResponse struct {
	Id           uuid.UUID `json:"id"`
	UserId       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Bio          string    `json:"bio"`
	Achievements string    `json:"achievements,omitempty"`
	Specialty    string    `json:"specialty"`
	City         string    `json:"city"`
	PricePerHour int64     `json:"price_per_hour"`
	RatingAvg    float64   `json:"rating_avg"`
	RatingCount  int       `json:"rating_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type CoachListResponse struct {
	Coaches []CoachResponse `json:"coaches"`
}
