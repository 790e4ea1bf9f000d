package service

import (
	"context"

	"booton-be/internal/entity"
	"booton-be/pkg/chat/codec"
	"booton-be/pkg/chat/conversation"
	"booton-be/pkg/chat/realtime"
	"booton-be/pkg/chat/session"

	"github.com/google/uuid"
)

// ChatSessionBackend binds session controllers to the chat service, so a
// websocket session goes through the same validation and fan-out as the
// REST path.
type ChatSessionBackend struct {
	svc IChatService
}

func NewChatSessionBackend(svc IChatService) *ChatSessionBackend {
	return &ChatSessionBackend{svc: svc}
}

func (b *ChatSessionBackend) History(ctx context.Context, a, peer uuid.UUID) ([]session.Message, error) {
	msgs, err := b.svc.HistoryEntities(ctx, a, peer)
	if err != nil {
		return nil, err
	}
	out := make([]session.Message, len(msgs))
	for i, m := range msgs {
		out[i] = toSessionMessage(m)
	}
	return out, nil
}

func (b *ChatSessionBackend) Append(ctx context.Context, senderID, receiverID uuid.UUID, payload codec.Payload) (session.Message, error) {
	msg, err := b.svc.Append(ctx, senderID, receiverID, payload)
	if err != nil {
		return session.Message{}, err
	}
	return toSessionMessage(msg), nil
}

func toSessionMessage(m *entity.Message) session.Message {
	return session.Message{
		ID:         m.Id,
		SenderID:   m.SenderId,
		ReceiverID: m.ReceiverId,
		Payload:    m.Payload,
		CreatedAt:  m.CreatedAt,
		Seq:        m.Seq,
	}
}

// BrokerFeed adapts the realtime broker to the session feed contract.
type BrokerFeed struct {
	broker *realtime.Broker
}

func NewBrokerFeed(broker *realtime.Broker) *BrokerFeed {
	return &BrokerFeed{broker: broker}
}

func (f *BrokerFeed) Subscribe(ctx context.Context, key conversation.Key) (session.Subscription, error) {
	return f.broker.Subscribe(ctx, key)
}
