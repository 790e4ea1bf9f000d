package mapper

import (
	"booton-be/internal/entity"
	"booton-be/internal/model"
	"booton-be/pkg/chat/codec"
)

// MessageMapper is the only place the wire encoding of message payloads is
// applied. Everything above it works with decoded payload values.
type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	return &entity.Message{
		Id:         msg.Id,
		SenderId:   msg.SenderId,
		ReceiverId: msg.ReceiverId,
		Payload:    codec.Decode(msg.Content),
		CreatedAt:  msg.CreatedAt,
		Seq:        msg.Seq,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	return &model.Message{
		Id:         msg.Id,
		SenderId:   msg.SenderId,
		ReceiverId: msg.ReceiverId,
		Content:    codec.Encode(msg.Payload),
		CreatedAt:  msg.CreatedAt,
		Seq:        msg.Seq,
	}
}

func (m *MessageMapper) ToEntities(msgs []*model.Message) []*entity.Message {
	entities := make([]*entity.Message, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ToEntity(msg)
	}
	return entities
}
