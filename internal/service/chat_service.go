package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"booton-be/internal/dto"
	"booton-be/internal/entity"
	"booton-be/internal/pkg/logger"
	"booton-be/internal/repository/specification"
	"booton-be/internal/repository/unitofwork"
	"booton-be/pkg/chat/codec"
	"booton-be/pkg/chat/conversation"
	"booton-be/pkg/chat/realtime"
	"booton-be/pkg/events"
	"booton-be/pkg/storage"
	pktNats "booton-be/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrSelfMessage      = errors.New("cannot send a message to yourself")
	ErrReceiverNotFound = errors.New("receiver does not exist")
)

// AttachmentUpload carries one incoming attachment through the service.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Kind        codec.Kind
	Body        io.Reader
}

type IChatService interface {
	SendText(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*dto.MessageResponse, error)
	SendAttachment(ctx context.Context, senderID, receiverID uuid.UUID, in AttachmentUpload) (*dto.MessageResponse, error)
	History(ctx context.Context, userID, peerID uuid.UUID, limit, offset int) (*dto.HistoryResponse, error)
	ConversationsFor(ctx context.Context, userID uuid.UUID) (*dto.ConversationListResponse, error)

	// Append stores a pre-built payload. SendText/SendAttachment and the
	// websocket session path all funnel through it.
	Append(ctx context.Context, senderID, receiverID uuid.UUID, payload codec.Payload) (*entity.Message, error)
	HistoryEntities(ctx context.Context, a, b uuid.UUID) ([]*entity.Message, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	uploader   *storage.Uploader
	broker     *realtime.Broker
	natsPub    *pktNats.Publisher
	logger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	uploader *storage.Uploader,
	broker *realtime.Broker,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		uploader:   uploader,
		broker:     broker,
		natsPub:    natsPub,
		logger:     log,
	}
}

func (s *chatService) SendText(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*dto.MessageResponse, error) {
	if len(text) > codec.MaxTextLen {
		return nil, codec.ErrTextTooLong
	}
	msg, err := s.Append(ctx, senderID, receiverID, codec.Text{Body: text})
	if err != nil {
		return nil, err
	}
	res := MessageToDTO(msg)
	return &res, nil
}

func (s *chatService) SendAttachment(ctx context.Context, senderID, receiverID uuid.UUID, in AttachmentUpload) (*dto.MessageResponse, error) {
	url, err := s.uploader.Upload(ctx, storage.UploadInput{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		Kind:        string(in.Kind),
		Body:        in.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("attachment upload failed: %w", err)
	}

	var payload codec.Payload
	switch in.Kind {
	case codec.KindImage:
		payload = codec.Image{URL: url}
	case codec.KindVoice:
		payload = codec.Voice{URL: url}
	default:
		payload = codec.File{Name: in.FileName, URL: url}
	}

	msg, err := s.Append(ctx, senderID, receiverID, payload)
	if err != nil {
		return nil, err
	}
	res := MessageToDTO(msg)
	return &res, nil
}

func (s *chatService) Append(ctx context.Context, senderID, receiverID uuid.UUID, payload codec.Payload) (*entity.Message, error) {
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	receiver, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: receiverID})
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, ErrReceiverNotFound
	}

	msg := &entity.Message{
		Id:         uuid.New(),
		SenderId:   senderID,
		ReceiverId: receiverID,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	// Fan out only after the row is durable. A subscriber that misses the
	// push can still recover the message from history.
	s.publish(ctx, msg)

	return msg, nil
}

func (s *chatService) publish(ctx context.Context, msg *entity.Message) {
	ev := realtime.Event{
		ID:         msg.Id,
		SenderID:   msg.SenderId,
		ReceiverID: msg.ReceiverId,
		Message:    codec.Encode(msg.Payload),
		CreatedAt:  msg.CreatedAt,
		Seq:        msg.Seq,
	}
	if err := s.broker.Publish(ctx, ev); err != nil {
		s.logger.Error("ChatService", "Failed to publish realtime event", map[string]interface{}{
			"message_id": msg.Id, "error": err.Error(),
		})
	}

	if s.natsPub != nil {
		key := conversation.Derive(msg.SenderId, msg.ReceiverId)
		evt := events.NewMessageSent(msg.Id.String(), msg.SenderId.String(), msg.ReceiverId.String(), string(key))
		if err := s.natsPub.Publish(ctx, evt); err != nil {
			s.logger.Warn("ChatService", "Failed to publish MESSAGE_SENT event", map[string]interface{}{
				"message_id": msg.Id, "error": err.Error(),
			})
		}
	}
}

func (s *chatService) HistoryEntities(ctx context.Context, a, b uuid.UUID) ([]*entity.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MessageRepository().FindAll(ctx,
		specification.ByConversationPair{A: a, B: b},
		specification.ChronologicalOrder{},
	)
}

func (s *chatService) History(ctx context.Context, userID, peerID uuid.UUID, limit, offset int) (*dto.HistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.ByConversationPair{A: userID, B: peerID},
		specification.ChronologicalOrder{},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	msgs, err := uow.MessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = MessageToDTO(m)
	}
	return &dto.HistoryResponse{Messages: out}, nil
}

func (s *chatService) ConversationsFor(ctx context.Context, userID uuid.UUID) (*dto.ConversationListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	latest, err := uow.MessageRepository().LatestPerCounterpart(ctx, userID)
	if err != nil {
		return nil, err
	}

	counterpartIDs := make([]uuid.UUID, 0, len(latest))
	for _, m := range latest {
		if m.SenderId == userID {
			counterpartIDs = append(counterpartIDs, m.ReceiverId)
		} else {
			counterpartIDs = append(counterpartIDs, m.SenderId)
		}
	}

	users := map[uuid.UUID]*entity.User{}
	if len(counterpartIDs) > 0 {
		users, err = uow.UserRepository().FindByIDs(ctx, counterpartIDs)
		if err != nil {
			return nil, err
		}
	}

	out := make([]dto.ConversationResponse, 0, len(latest))
	for _, m := range latest {
		counterpartID := m.SenderId
		if m.SenderId == userID {
			counterpartID = m.ReceiverId
		}

		conv := dto.ConversationResponse{CounterpartId: counterpartID}
		if u, ok := users[counterpartID]; ok {
			conv.CounterpartName = u.FullName
			conv.CounterpartAvatar = u.AvatarURL
		}
		last := MessageToDTO(m)
		conv.LastMessage = &last
		out = append(out, conv)
	}

	return &dto.ConversationListResponse{Conversations: out}, nil
}

// MessageToDTO flattens a message entity for API responses.
func MessageToDTO(m *entity.Message) dto.MessageResponse {
	res := dto.MessageResponse{
		Id:         m.Id,
		SenderId:   m.SenderId,
		ReceiverId: m.ReceiverId,
		CreatedAt:  m.CreatedAt,
		Seq:        m.Seq,
	}

	switch p := m.Payload.(type) {
	case codec.Text:
		res.Type = string(codec.KindText)
		res.Text = p.Body
	case codec.Image:
		res.Type = string(codec.KindImage)
		res.URL = p.URL
	case codec.Voice:
		res.Type = string(codec.KindVoice)
		res.URL = p.URL
	case codec.File:
		res.Type = string(codec.KindFile)
		res.FileName = p.Name
		res.URL = p.URL
	}
	return res
}
