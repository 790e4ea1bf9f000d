package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"booton-be/internal/model"
	"booton-be/internal/pkg/logger"
	"booton-be/internal/repository"
	"booton-be/internal/repository/specification"
	"booton-be/internal/repository/unitofwork"
	"booton-be/pkg/events"
	pktNats "booton-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	uowFactory unitofwork.RepositoryFactory,
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		repo:       repo,
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", "Processing event", map[string]interface{}{"type": event.EventType()})

	switch event.EventType() {
	case events.TypeMessageSent:
		return s.handleMessageSent(ctx, event)
	case events.TypeEnrollmentCreated:
		return s.handleEnrollmentCreated(ctx, event)
	case events.TypeRatingSubmitted:
		return s.handleRatingSubmitted(ctx, event)
	default:
		s.logger.Info("NotificationService", "No handler for event type", map[string]interface{}{"type": event.EventType()})
		return nil
	}
}

func (s *NotificationService) handleMessageSent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	receiverID, err := payloadUUID(payload, "receiver_id")
	if err != nil {
		s.logger.Warn("NotificationService", "MESSAGE_SENT without valid receiver_id", map[string]interface{}{"error": err.Error()})
		return nil
	}
	senderID, err := payloadUUID(payload, "sender_id")
	if err != nil {
		return nil
	}

	sender, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByID{ID: senderID})
	if err != nil {
		return err
	}
	senderName := "Someone"
	if sender != nil {
		senderName = sender.FullName
	}

	notif := s.buildNotification(receiverID, &senderID, events.TypeMessageSent,
		"New message",
		fmt.Sprintf("%s sent you a message", senderName),
		payload,
	)
	return s.deliver(ctx, notif)
}

func (s *NotificationService) handleEnrollmentCreated(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	coachID, err := payloadUUID(payload, "coach_id")
	if err != nil {
		return nil
	}
	playerID, err := payloadUUID(payload, "player_id")
	if err != nil {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	coach, err := uow.CoachRepository().FindOne(ctx, specification.ByID{ID: coachID})
	if err != nil {
		return err
	}
	if coach == nil {
		s.logger.Warn("NotificationService", "ENROLLMENT_CREATED for unknown coach", map[string]interface{}{"coach_id": coachID})
		return nil
	}

	player, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: playerID})
	if err != nil {
		return err
	}
	playerName := "A player"
	if player != nil {
		playerName = player.FullName
	}

	notif := s.buildNotification(coach.UserId, &playerID, events.TypeEnrollmentCreated,
		"New enrollment",
		fmt.Sprintf("%s enrolled in your coaching sessions", playerName),
		payload,
	)
	return s.deliver(ctx, notif)
}

func (s *NotificationService) handleRatingSubmitted(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	coachID, err := payloadUUID(payload, "coach_id")
	if err != nil {
		return nil
	}
	playerID, err := payloadUUID(payload, "player_id")
	if err != nil {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	coach, err := uow.CoachRepository().FindOne(ctx, specification.ByID{ID: coachID})
	if err != nil {
		return err
	}
	if coach == nil {
		return nil
	}

	stars := 0
	switch v := payload["stars"].(type) {
	case float64:
		stars = int(v)
	case int:
		stars = v
	}

	notif := s.buildNotification(coach.UserId, &playerID, events.TypeRatingSubmitted,
		"New rating",
		fmt.Sprintf("You received a %d-star rating", stars),
		payload,
	)
	return s.deliver(ctx, notif)
}

func (s *NotificationService) buildNotification(userID uuid.UUID, actorID *uuid.UUID, typeCode, title, message string, payload map[string]interface{}) model.Notification {
	metaJSON, _ := json.Marshal(payload)
	return model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		ActorID:   actorID,
		TypeCode:  typeCode,
		Title:     title,
		Message:   message,
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: time.Now(),
	}
}

func (s *NotificationService) deliver(ctx context.Context, notif model.Notification) error {
	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", "Error saving notification", map[string]interface{}{
			"user_id": notif.UserID,
			"error":   err,
		})
		return err
	}
	if s.delivery != nil {
		s.delivery.Send(notif.UserID, notif)
	}
	return nil
}

// Inbox API used by the REST handler.

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func payloadUUID(payload map[string]interface{}, key string) (uuid.UUID, error) {
	raw, _ := payload[key].(string)
	return uuid.Parse(raw)
}
