package service

import (
	"context"
	"time"

	"booton-be/internal/dto"
	"booton-be/internal/entity"
	"booton-be/internal/pkg/logger"
	"booton-be/internal/repository/memory"
	"booton-be/internal/repository/specification"
	"booton-be/internal/repository/unitofwork"
	"booton-be/pkg/events"
	pktNats "booton-be/pkg/nats"

	"github.com/google/uuid"
)

type IRatingService interface {
	RateCoach(ctx context.Context, playerID uuid.UUID, req *dto.RateCoachRequest) (*dto.RatingResponse, error)
	GetCoachRating(ctx context.Context, coachID uuid.UUID) (*dto.CoachRatingResponse, error)
	ListCoachRatings(ctx context.Context, coachID uuid.UUID) ([]*dto.RatingResponse, error)
}

type ratingService struct {
	uowFactory     unitofwork.RepositoryFactory
	cache          *memory.DirectoryCache
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewRatingService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.DirectoryCache,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IRatingService {
	return &ratingService{
		uowFactory:     uowFactory,
		cache:          cache,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *ratingService) RateCoach(ctx context.Context, playerID uuid.UUID, req *dto.RateCoachRequest) (*dto.RatingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	coach, err := uow.CoachRepository().FindOne(ctx, specification.ByID{ID: req.CoachId})
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, ErrCoachNotFound
	}

	rating := &entity.Rating{
		Id:        uuid.New(),
		CoachId:   req.CoachId,
		PlayerId:  playerID,
		Stars:     req.Stars,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.RatingRepository().Upsert(ctx, rating); err != nil {
		return nil, err
	}

	aggregate, err := uow.RatingRepository().Aggregate(ctx, req.CoachId)
	if err != nil {
		return nil, err
	}

	coach.RatingAvg = aggregate.Average
	coach.RatingCount = aggregate.Count
	if err := uow.CoachRepository().Update(ctx, coach); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.cache.Invalidate()

	if s.eventPublisher != nil {
		evt := events.NewRatingSubmitted(req.CoachId.String(), playerID.String(), req.Stars)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("RatingService", "Failed to publish RATING_SUBMITTED event", map[string]interface{}{
				"coach_id": req.CoachId,
				"error":    err.Error(),
			})
		}
	}

	return ratingToDTO(rating), nil
}

func (s *ratingService) GetCoachRating(ctx context.Context, coachID uuid.UUID) (*dto.CoachRatingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	aggregate, err := uow.RatingRepository().Aggregate(ctx, coachID)
	if err != nil {
		return nil, err
	}

	return &dto.CoachRatingResponse{
		CoachId: coachID,
		Average: aggregate.Average,
		Count:   aggregate.Count,
	}, nil
}

func (s *ratingService) ListCoachRatings(ctx context.Context, coachID uuid.UUID) ([]*dto.RatingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ratings, err := uow.RatingRepository().FindAll(ctx,
		specification.ByCoachID{CoachID: coachID},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.RatingResponse, len(ratings))
	for i, r := range ratings {
		res[i] = ratingToDTO(r)
	}
	return res, nil
}

func ratingToDTO(r *entity.Rating) *dto.RatingResponse {
	return &dto.RatingResponse{
		Id:        r.Id,
		CoachId:   r.CoachId,
		PlayerId:  r.PlayerId,
		Stars:     r.Stars,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
