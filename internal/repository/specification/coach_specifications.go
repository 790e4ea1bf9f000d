package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCity struct {
	City string
}

func (s ByCity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("city = ?", s.City)
}

type BySpecialty struct {
	Specialty string
}

func (s BySpecialty) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("specialty = ?", s.Specialty)
}

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByCoachAndPlayer selects one player's rating or progress rows for a coach.
type ByCoachAndPlayer struct {
	CoachID  uuid.UUID
	PlayerID uuid.UUID
}

func (s ByCoachAndPlayer) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("coach_id = ? AND player_id = ?", s.CoachID, s.PlayerID)
}

type ByCoachID struct {
	CoachID uuid.UUID
}

func (s ByCoachID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("coach_id = ?", s.CoachID)
}

type ByPlayerID struct {
	PlayerID uuid.UUID
}

func (s ByPlayerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("player_id = ?", s.PlayerID)
}
