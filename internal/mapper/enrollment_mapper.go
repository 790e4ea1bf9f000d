package mapper

import (
	"time"

	"booton-be/internal/entity"
	"booton-be/internal/model"
)

type EnrollmentMapper struct{}

func NewEnrollmentMapper() *EnrollmentMapper {
	return &EnrollmentMapper{}
}

func (m *EnrollmentMapper) ToEntity(e *model.Enrollment) *entity.Enrollment {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Enrollment{
		Id:            e.Id,
		PlayerId:      e.PlayerId,
		CoachId:       e.CoachId,
		Amount:        e.Amount,
		PaymentStatus: entity.PaymentStatus(e.PaymentStatus),
		SnapToken:     e.SnapToken,
		RedirectURL:   e.RedirectURL,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *EnrollmentMapper) ToModel(e *entity.Enrollment) *model.Enrollment {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Enrollment{
		Id:            e.Id,
		PlayerId:      e.PlayerId,
		CoachId:       e.CoachId,
		Amount:        e.Amount,
		PaymentStatus: string(e.PaymentStatus),
		SnapToken:     e.SnapToken,
		RedirectURL:   e.RedirectURL,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *EnrollmentMapper) ToEntities(enrollments []*model.Enrollment) []*entity.Enrollment {
	entities := make([]*entity.Enrollment, len(enrollments))
	for i, e := range enrollments {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
