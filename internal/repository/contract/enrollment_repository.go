package contract

import (
	"context"

	"booton-be/internal/entity"
	"booton-be/internal/repository/specification"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *entity.Enrollment) error
	Update(ctx context.Context, enrollment *entity.Enrollment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Enrollment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Enrollment, error)
}
