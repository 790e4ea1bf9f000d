package model

import (
	"time"

	"github.com/google/uuid"
)

type Coach struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Bio          string    `gorm:"type:text"`
	Achievements string    `gorm:"type:text"`
	Specialty    string    `gorm:"type:varchar(128);index"`
	City         string    `gorm:"type:varchar(128);index"`
	PricePerHour int64     `gorm:"not null;default:0"`
	RatingAvg    float64   `gorm:"not null;default:0"`
	RatingCount  int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Coach) TableName() string {
	return "coaches"
}
