package entity

import (
	"time"

	"booton-be/pkg/chat/codec"

	"github.com/google/uuid"
)

// Message is one immutable chat message between two users. Payload is the
// decoded form; the wire encoding only exists at the model/mapper boundary.
type Message struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SenderId   uuid.UUID
	ReceiverId uuid.UUID
	Payload    codec.Payload
	CreatedAt  time.Time
	Seq        int64
}

// ConversationSummary is one row of a user's conversation list: the
// counterpart plus the latest message exchanged with them.
type ConversationSummary struct {
	CounterpartId uuid.UUID
	Counterpart   *User
	LastMessage   *Message
}
