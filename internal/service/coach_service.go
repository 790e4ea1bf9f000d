package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booton-be/internal/dto"
	"booton-be/internal/entity"
	"booton-be/internal/repository/memory"
	"booton-be/internal/repository/specification"
	"booton-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrCoachNotFound = errors.New("coach not found")

type ICoachService interface {
	ListCoaches(ctx context.Context, city, specialty string) (*dto.CoachListResponse, error)
	GetCoach(ctx context.Context, coachID uuid.UUID) (*dto.CoachResponse, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, req *dto.UpsertCoachProfileRequest) (*dto.CoachResponse, error)
}

type coachService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.DirectoryCache
}

func NewCoachService(uowFactory unitofwork.RepositoryFactory, cache *memory.DirectoryCache) ICoachService {
	return &coachService{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

func (s *coachService) ListCoaches(ctx context.Context, city, specialty string) (*dto.CoachListResponse, error) {
	cacheKey := fmt.Sprintf("coaches:%s:%s", city, specialty)
	if coaches, ok := s.cache.Get(cacheKey); ok {
		return s.toListResponse(ctx, coaches)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if city != "" {
		specs = append(specs, specification.ByCity{City: city})
	}
	if specialty != "" {
		specs = append(specs, specification.BySpecialty{Specialty: specialty})
	}
	specs = append(specs, specification.OrderBy{Field: "rating_avg", Desc: true})

	coaches, err := uow.CoachRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	s.cache.Save(cacheKey, coaches)
	return s.toListResponse(ctx, coaches)
}

func (s *coachService) toListResponse(ctx context.Context, coaches []*entity.Coach) (*dto.CoachListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	userIDs := make([]uuid.UUID, len(coaches))
	for i, c := range coaches {
		userIDs[i] = c.UserId
	}

	users := map[uuid.UUID]*entity.User{}
	if len(userIDs) > 0 {
		var err error
		users, err = uow.UserRepository().FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
	}

	out := make([]dto.CoachResponse, len(coaches))
	for i, c := range coaches {
		out[i] = coachToDTO(c, users[c.UserId])
	}
	return &dto.CoachListResponse{Coaches: out}, nil
}

func (s *coachService) GetCoach(ctx context.Context, coachID uuid.UUID) (*dto.CoachResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	coach, err := uow.CoachRepository().FindOne(ctx, specification.ByID{ID: coachID})
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, ErrCoachNotFound
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: coach.UserId})
	if err != nil {
		return nil, err
	}

	res := coachToDTO(coach, user)
	return &res, nil
}

func (s *coachService) UpsertProfile(ctx context.Context, userID uuid.UUID, req *dto.UpsertCoachProfileRequest) (*dto.CoachResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.CoachRepository().FindOne(ctx, specification.ByUserID{UserID: userID})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if existing == nil {
		existing = &entity.Coach{
			Id:        uuid.New(),
			UserId:    userID,
			CreatedAt: now,
		}
	}
	existing.Bio = req.Bio
	existing.Achievements = req.Achievements
	existing.Specialty = req.Specialty
	existing.City = req.City
	existing.PricePerHour = req.PricePerHour
	existing.UpdatedAt = &now

	var saveErr error
	if existing.CreatedAt.Equal(now) {
		saveErr = uow.CoachRepository().Create(ctx, existing)
	} else {
		saveErr = uow.CoachRepository().Update(ctx, existing)
	}
	if saveErr != nil {
		return nil, saveErr
	}

	// Directory pages may now be stale.
	s.cache.Invalidate()

	res := coachToDTO(existing, nil)
	return &res, nil
}

func coachToDTO(c *entity.Coach, u *entity.User) dto.CoachResponse {
	res := dto.CoachResponse{
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
	}
	if u != nil {
		res.FullName = u.FullName
		res.AvatarURL = u.AvatarURL
	}
	return res
}
