package model

import (
	"time"

	"github.com/google/uuid"
)

// One rating per (coach, player); Rate upserts against this constraint.
type Rating struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CoachId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_coach_player,priority:1"`
	PlayerId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_coach_player,priority:2"`
	Stars     int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Rating) TableName() string {
	return "ratings"
}
