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

type CoachRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CoachMapper
}

func NewCoachRepository(db *gorm.DB) contract.CoachRepository {
	return &CoachRepositoryImpl{
		db:     db,
		mapper: mapper.NewCoachMapper(),
	}
}

func (r *CoachRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CoachRepositoryImpl) Create(ctx context.Context, coach *entity.Coach) error {
	m := r.mapper.ToModel(coach)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*coach = *r.mapper.ToEntity(m)
	return nil
}

func (r *CoachRepositoryImpl) Update(ctx context.Context, coach *entity.Coach) error {
	m := r.mapper.ToModel(coach)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*coach = *r.mapper.ToEntity(m)
	return nil
}

func (r *CoachRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Coach, error) {
	var m model.Coach
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CoachRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Coach, error) {
	var models []*model.Coach
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CoachRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Coach{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
