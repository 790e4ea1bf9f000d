package unitofwork

import (
	"context"

	"booton-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	MessageRepository() contract.MessageRepository
	CoachRepository() contract.CoachRepository
	EnrollmentRepository() contract.EnrollmentRepository
	RatingRepository() contract.RatingRepository
	ProgressRepository() contract.ProgressRepository
}
