package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"booton-be/internal/dto"
	"booton-be/internal/entity"
	"booton-be/internal/repository/specification"
	"booton-be/internal/repository/unitofwork"
	"booton-be/pkg/storage"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type IUserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, fileName, contentType string, body io.Reader) (*dto.UploadAvatarResponse, error)
}

type userService struct {
	uowFactory   unitofwork.RepositoryFactory
	store        storage.BlobStorage
	avatarBucket string
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, store storage.BlobStorage, avatarBucket string) IUserService {
	return &userService{
		uowFactory:   uowFactory,
		store:        store,
		avatarBucket: avatarBucket,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return userToProfileDTO(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	user.FullName = req.FullName
	user.City = req.City
	user.UpdatedAt = &now

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	return userToProfileDTO(user), nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID uuid.UUID, fileName, contentType string, body io.Reader) (*dto.UploadAvatarResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	ext := filepath.Ext(fileName)
	base := storage.SanitizeBaseName(strings.TrimSuffix(filepath.Base(fileName), ext))
	objectPath := fmt.Sprintf("%s/%s_%d%s", userID, base, time.Now().Unix(), ext)

	if err := s.store.Upload(ctx, s.avatarBucket, objectPath, body, contentType); err != nil {
		return nil, err
	}

	now := time.Now()
	user.AvatarURL = s.store.PublicURL(s.avatarBucket, objectPath)
	user.UpdatedAt = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.UploadAvatarResponse{AvatarURL: user.AvatarURL}, nil
}

func userToProfileDTO(u *entity.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		Id:        u.Id,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      string(u.Role),
		AvatarURL: u.AvatarURL,
		City:      u.City,
		CreatedAt: u.CreatedAt,
	}
}
