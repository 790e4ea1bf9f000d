package entity

import (
	"time"

	"github.com/google/uuid"
)

type Coach struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID
	Bio          string
	Achievements string
	Specialty    string
	City         string
	PricePerHour int64
	RatingAvg    float64
	RatingCount  int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
