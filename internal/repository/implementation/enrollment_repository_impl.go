package implementation

import (
	"context"
	"errors"

	"booton-be/internal/entity"
	"booton-be/internal/mapper"
	"booton-be/internal/model"
	"booton-be/internal/repository/contract"
	"booton-be/internal/repository/specification"

	"gorm.io/gorm"
)

type EnrollmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EnrollmentMapper
}

func NewEnrollmentRepository(db *gorm.DB) contract.EnrollmentRepository {
	return &EnrollmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewEnrollmentMapper(),
	}
}

func (r *EnrollmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EnrollmentRepositoryImpl) Create(ctx context.Context, enrollment *entity.Enrollment) error {
	m := r.mapper.ToModel(enrollment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*enrollment = *r.mapper.ToEntity(m)
	return nil
}

func (r *EnrollmentRepositoryImpl) Update(ctx context.Context, enrollment *entity.Enrollment) error {
	m := r.mapper.ToModel(enrollment)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*enrollment = *r.mapper.ToEntity(m)
	return nil
}

func (r *EnrollmentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Enrollment, error) {
	var m model.Enrollment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EnrollmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Enrollment, error) {
	var models []*model.Enrollment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
