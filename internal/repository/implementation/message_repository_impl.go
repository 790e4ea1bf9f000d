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
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, msg *entity.Message) error {
	m := r.mapper.ToModel(msg)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	// Seq is database-assigned and not returned by the insert; read the row
	// back so the caller sees the final created_at and seq.
	var stored model.Message
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", m.Id).Error; err != nil {
		return err
	}
	*msg = *r.mapper.ToEntity(&stored)
	return nil
}

func (r *MessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	var m model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MessageRepositoryImpl) LatestPerCounterpart(ctx context.Context, userID uuid.UUID) ([]*entity.Message, error) {
	// DISTINCT ON the counterpart keeps exactly the newest row per pair.
	var models []*model.Message
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (counterpart) *
		FROM (
			SELECT *,
				CASE WHEN sender_id = @uid THEN receiver_id ELSE sender_id END AS counterpart
			FROM messages
			WHERE sender_id = @uid OR receiver_id = @uid
		) m
		ORDER BY counterpart, created_at DESC, seq DESC`,
		map[string]interface{}{"uid": userID},
	).Scan(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
