package contract

import (
	"context"

	"booton-be/internal/entity"
	"booton-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RatingRepository interface {
	// Upsert inserts the rating or, when the (coach, player) pair already
	// rated, replaces stars and comment in place.
	Upsert(ctx context.Context, rating *entity.Rating) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Rating, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Rating, error)
	// Aggregate returns average and count for one coach; zero values when
	// the coach has no ratings yet.
	Aggregate(ctx context.Context, coachID uuid.UUID) (*entity.CoachRating, error)
}
