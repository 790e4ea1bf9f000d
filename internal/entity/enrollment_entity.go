package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

type Enrollment struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlayerId      uuid.UUID
	CoachId       uuid.UUID
	Amount        int64
	PaymentStatus PaymentStatus
	SnapToken     string
	RedirectURL   string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
