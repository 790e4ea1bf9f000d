package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RolePlayer UserRole = "player"
	RoleCoach  UserRole = "coach"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName  string
	Email     string
	Role      UserRole
	AvatarURL string
	City      string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
