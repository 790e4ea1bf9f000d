package model

import (
	"time"

	"github.com/google/uuid"
)

type ProgressEntry struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlayerId  uuid.UUID `gorm:"type:uuid;not null;index"`
	CoachId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Category  string    `gorm:"type:varchar(64);index"`
	Score     int       `gorm:"not null;default:0"`
	Notes     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ProgressEntry) TableName() string {
	return "progress_entries"
}
