package contract

import (
	"context"

	"booton-be/internal/entity"
	"booton-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository interface {
	// Create persists the message and fills in the server-assigned id,
	// created_at and seq on the passed entity.
	Create(ctx context.Context, msg *entity.Message) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// LatestPerCounterpart returns, for each user the given user has
	// exchanged messages with, the most recent message of that pair.
	LatestPerCounterpart(ctx context.Context, userID uuid.UUID) ([]*entity.Message, error)
}
