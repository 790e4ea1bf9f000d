package events

import "time"

// Event type codes published on the bus.
const (
	TypeMessageSent       = "MESSAGE_SENT"
	TypeEnrollmentCreated = "ENROLLMENT_CREATED"
	TypeRatingSubmitted   = "RATING_SUBMITTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "MESSAGE_SENT").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the concrete event carried over the wire.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewMessageSent is emitted after a chat message is durably stored. The
// notification worker fans it out to the receiver.
func NewMessageSent(messageID, senderID, receiverID, conversationKey string) Event {
	return BaseEvent{
		Type: TypeMessageSent,
		Data: map[string]interface{}{
			"message_id":       messageID,
			"sender_id":        senderID,
			"receiver_id":      receiverID,
			"conversation_key": conversationKey,
		},
		OccurredAt: time.Now(),
	}
}

// NewEnrollmentCreated is emitted once an enrollment row exists, before
// payment settles.
func NewEnrollmentCreated(enrollmentID, playerID, coachID string, amount int64) Event {
	return BaseEvent{
		Type: TypeEnrollmentCreated,
		Data: map[string]interface{}{
			"enrollment_id": enrollmentID,
			"player_id":     playerID,
			"coach_id":      coachID,
			"amount":        amount,
		},
		OccurredAt: time.Now(),
	}
}

// NewRatingSubmitted is emitted when a player rates a coach.
func NewRatingSubmitted(coachID, playerID string, stars int) Event {
	return BaseEvent{
		Type: TypeRatingSubmitted,
		Data: map[string]interface{}{
			"coach_id":  coachID,
			"player_id": playerID,
			"stars":     stars,
		},
		OccurredAt: time.Now(),
	}
}
