package contract

import (
	"context"

	"booton-be/internal/entity"
	"booton-be/internal/repository/specification"
)

type ProgressRepository interface {
	Create(ctx context.Context, entry *entity.ProgressEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProgressEntry, error)
}
