package dto

import (
	"time"

	"github.com/google/uuid"
)

type EnrollRequest struct {
	CoachId   uuid.UUID `json:"coach_id" validate:"required"`
	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone"`
}

type EnrollResponse struct {
	Id          uuid.UUID `json:"id"`
	SnapToken   string    `json:"snap_token"`
	RedirectURL string    `json:"redirect_url"`
}

type EnrollmentResponse struct {
	Id            uuid.UUID `json:"id"`
	CoachId       uuid.UUID `json:"coach_id"`
	PlayerId      uuid.UUID `json:"player_id"`
	Amount        int64     `json:"amount"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentNotificationRequest is the subset of the Midtrans HTTP
// notification this service reads.
type PaymentNotificationRequest struct {
	OrderId           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}
