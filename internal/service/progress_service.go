package service

import (
	"context"
	"errors"
	"time"

	"booton-be/internal/dto"
	"booton-be/internal/entity"
	"booton-be/internal/repository/specification"
	"booton-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrNotACoach = errors.New("user has no coach profile")

type IProgressService interface {
	AddEntry(ctx context.Context, coachUserID uuid.UUID, req *dto.AddProgressRequest) (*dto.ProgressEntryResponse, error)
	ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]*dto.ProgressEntryResponse, error)
}

type progressService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProgressService(uowFactory unitofwork.RepositoryFactory) IProgressService {
	return &progressService{
		uowFactory: uowFactory,
	}
}

func (s *progressService) AddEntry(ctx context.Context, coachUserID uuid.UUID, req *dto.AddProgressRequest) (*dto.ProgressEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	coach, err := uow.CoachRepository().FindOne(ctx, specification.ByUserID{UserID: coachUserID})
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, ErrNotACoach
	}

	player, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.PlayerId})
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, errors.New("player not found")
	}

	entry := &entity.ProgressEntry{
		Id:        uuid.New(),
		PlayerId:  req.PlayerId,
		CoachId:   coach.Id,
		Title:     req.Title,
		Category:  req.Category,
		Score:     req.Score,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
	}

	if err := uow.ProgressRepository().Create(ctx, entry); err != nil {
		return nil, err
	}

	return progressToDTO(entry), nil
}

func (s *progressService) ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]*dto.ProgressEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entries, err := uow.ProgressRepository().FindAll(ctx,
		specification.ByPlayerID{PlayerID: playerID},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ProgressEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = progressToDTO(e)
	}
	return res, nil
}

func progressToDTO(e *entity.ProgressEntry) *dto.ProgressEntryResponse {
	return &dto.ProgressEntryResponse{
		Id:        e.Id,
		PlayerId:  e.PlayerId,
		CoachId:   e.CoachId,
		Title:     e.Title,
		Category:  e.Category,
		Score:     e.Score,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}
