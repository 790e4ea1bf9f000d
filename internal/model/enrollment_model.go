package model

import (
	"time"

	"github.com/google/uuid"
)

type Enrollment struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlayerId      uuid.UUID `gorm:"type:uuid;not null;index"`
	CoachId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount        int64     `gorm:"not null"`
	PaymentStatus string    `gorm:"type:varchar(32);not null;default:'pending';index"`
	SnapToken     string    `gorm:"type:text"`
	RedirectURL   string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
