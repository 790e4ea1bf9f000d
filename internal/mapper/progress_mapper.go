package mapper

import (
	"booton-be/internal/entity"
	"booton-be/internal/model"
)

type ProgressMapper struct{}

func NewProgressMapper() *ProgressMapper {
	return &ProgressMapper{}
}

func (m *ProgressMapper) ToEntity(p *model.ProgressEntry) *entity.ProgressEntry {
	if p == nil {
		return nil
	}
	return &entity.ProgressEntry{
		Id:        p.Id,
		PlayerId:  p.PlayerId,
		CoachId:   p.CoachId,
		Title:     p.Title,
		Category:  p.Category,
		Score:     p.Score,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func (m *ProgressMapper) ToModel(p *entity.ProgressEntry) *model.ProgressEntry {
	if p == nil {
		return nil
	}
	return &model.ProgressEntry{
		Id:        p.Id,
		PlayerId:  p.PlayerId,
		CoachId:   p.CoachId,
		Title:     p.Title,
		Category:  p.Category,
		Score:     p.Score,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func (m *ProgressMapper) ToEntities(entries []*model.ProgressEntry) []*entity.ProgressEntry {
	entities := make([]*entity.ProgressEntry, len(entries))
	for i, p := range entries {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
