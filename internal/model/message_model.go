package model

import (
	"time"

	"github.com/google/uuid"
)

// Message rows are append-only; there is no soft delete. Seq is assigned by
// the database (bigserial) and read back after insert, it is the arrival
// order tiebreaker for rows sharing a created_at.
type Message struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SenderId   uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_pair,priority:1"`
	ReceiverId uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_pair,priority:2"`
	Content    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
	Seq        int64     `gorm:"autoIncrement;uniqueIndex;<-:false"`
}

func (Message) TableName() string {
	return "messages"
}
