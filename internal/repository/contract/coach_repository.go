package contract

import (
	"context"

	"booton-be/internal/entity"
	"booton-be/internal/repository/specification"
)

type CoachRepository interface {
	Create(ctx context.Context, coach *entity.Coach) error
	Update(ctx context.Context, coach *entity.Coach) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Coach, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Coach, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
