package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendTextRequest struct {
	ReceiverId uuid.UUID `json:"receiver_id" validate:"required"`
	Text       string    `json:"text" validate:"required,max=500"`
}

// MessageResponse flattens the payload variant for clients. Exactly one of
// Text, URL is meaningful depending on Type; FileName accompanies files.
type MessageResponse struct {
	Id         uuid.UUID `json:"id"`
	SenderId   uuid.UUID `json:"sender_id"`
	ReceiverId uuid.UUID `json:"receiver_id"`
	Type       string    `json:"type"`
	Text       string    `json:"text,omitempty"`
	URL        string    `json:"url,omitempty"`
	FileName   string    `json:"file_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Seq        int64     `json:"seq"`
}

type HistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type ConversationResponse struct {
	CounterpartId     uuid.UUID        `json:"counterpart_id"`
	CounterpartName   string           `json:"counterpart_name,omitempty"`
	CounterpartAvatar string           `json:"counterpart_avatar,omitempty"`
	LastMessage       *MessageResponse `json:"last_message,omitempty"`
}

type ConversationListResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
}
