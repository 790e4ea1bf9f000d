package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"booton-be/pkg/chat/conversation"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const topicName = "chat.messages"

// Event is the realtime notification for one stored message. Message holds
// the encoded payload text, not the decoded form; subscribers decode at the
// edge.
type Event struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	Seq        int64     `json:"seq"`
}

// Broker fans stored-message events out to conversation subscribers.
// Delivery is at least once; consumers deduplicate by Event.ID.
type Broker struct {
	pubSub *gochannel.GoChannel
}

func NewBroker(logger watermill.LoggerAdapter) *Broker {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	return &Broker{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, logger),
	}
}

// Publish announces a stored message. It must only be called after the
// message is durable, so a subscriber that misses the event can still find
// it in history.
func (b *Broker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal chat event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := b.pubSub.Publish(topicName, msg); err != nil {
		return fmt.Errorf("failed to publish chat event: %w", err)
	}
	return nil
}

// Subscription delivers the events of one conversation. Close releases it;
// after Close the Events channel is drained and closed by the broker side.
type Subscription struct {
	events <-chan Event
	cancel context.CancelFunc
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Close() {
	s.cancel()
}

// Subscribe streams the events whose sender/receiver pair belongs to key.
// Events for other conversations are filtered out before they reach the
// caller.
func (b *Broker) Subscribe(ctx context.Context, key conversation.Key) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	messages, err := b.pubSub.Subscribe(subCtx, topicName)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topicName, err)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range messages {
			var ev Event
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				log.Printf("[ERROR] Failed to unmarshal chat event: %v", err)
				msg.Ack() // Ack invalid messages to prevent infinite retry
				continue
			}

			if !key.Matches(ev.SenderID, ev.ReceiverID) {
				msg.Ack()
				continue
			}

			select {
			case out <- ev:
				msg.Ack()
			case <-subCtx.Done():
				msg.Ack()
				return
			}
		}
	}()

	return &Subscription{events: out, cancel: cancel}, nil
}

// Close shuts the broker down and terminates all subscriptions.
func (b *Broker) Close() error {
	return b.pubSub.Close()
}
