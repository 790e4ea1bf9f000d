package implementation

import (
	"context"
	"errors"

	"booton-be/internal/entity"
	"booton-be/internal/mapper"
	"booton-be/internal/model"
	"booton-be/internal/repository/contract"
	"booton-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RatingMapper
}

func NewRatingRepository(db *gorm.DB) contract.RatingRepository {
	return &RatingRepositoryImpl{
		db:     db,
		mapper: mapper.NewRatingMapper(),
	}
}

func (r *RatingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RatingRepositoryImpl) Upsert(ctx context.Context, rating *entity.Rating) error {
	m := r.mapper.ToModel(rating)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "coach_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars", "comment", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	// The conflict path keeps the original row id; read it back.
	var stored model.Rating
	if err := r.db.WithContext(ctx).
		Where("coach_id = ? AND player_id = ?", m.CoachId, m.PlayerId).
		First(&stored).Error; err != nil {
		return err
	}
	*rating = *r.mapper.ToEntity(&stored)
	return nil
}

func (r *RatingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Rating, error) {
	var m model.Rating
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RatingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Rating, error) {
	var models []*model.Rating
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RatingRepositoryImpl) Aggregate(ctx context.Context, coachID uuid.UUID) (*entity.CoachRating, error) {
	var row struct {
		Average float64
		Count   int
	}
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Select("COALESCE(AVG(stars), 0) AS average, COUNT(*) AS count").
		Where("coach_id = ?", coachID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &entity.CoachRating{
		CoachId: coachID,
		Average: row.Average,
		Count:   row.Count,
	}, nil
}
