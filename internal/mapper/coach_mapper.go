package mapper

import (
	"time"

	"booton-be/internal/entity"
	"booton-be/internal/model"
)

type CoachMapper struct{}

func NewCoachMapper() *CoachMapper {
	return &CoachMapper{}
}

func (m *CoachMapper) ToEntity(c *model.Coach) *entity.Coach {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Coach{
		Id:           c.Id,
		UserId:       c.UserId,
		Bio:          c.Bio,
		Achievements: c.Achievements,
		Specialty:    c.Specialty,
		City:         c.City,
		PricePerHour: c.PricePerHour,
		RatingAvg:    c.RatingAvg,
		RatingCount:  c.RatingCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *CoachMapper) ToModel(c *entity.Coach) *model.Coach {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Coach{
		Id:           c.Id,
		UserId:       c.UserId,
		Bio:          c.Bio,
		Achievements: c.Achievements,
		Specialty:    c.Specialty,
		City:         c.City,
		PricePerHour: c.PricePerHour,
		RatingAvg:    c.RatingAvg,
		RatingCount:  c.RatingCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *CoachMapper) ToEntities(coaches []*model.Coach) []*entity.Coach {
	entities := make([]*entity.Coach, len(coaches))
	for i, c := range coaches {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
