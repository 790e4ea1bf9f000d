package controller

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"sync"
	"time"

	"booton-be/internal/dto"
	"booton-be/internal/pkg/logger"
	"booton-be/internal/pkg/serverutils"
	"booton-be/internal/service"
	"booton-be/pkg/chat/codec"
	"booton-be/pkg/chat/conversation"
	"booton-be/pkg/chat/realtime"
	"booton-be/pkg/chat/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendText(ctx *fiber.Ctx) error
	SendAttachment(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Conversations(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	backend     *service.ChatSessionBackend
	uploader    session.Attachments
	feed        session.Feed
	logger      logger.ILogger
}

func NewChatController(
	chatService service.IChatService,
	backend *service.ChatSessionBackend,
	uploader session.Attachments,
	feed session.Feed,
	log logger.ILogger,
) IChatController {
	return &chatController{
		chatService: chatService,
		backend:     backend,
		uploader:    uploader,
		feed:        feed,
		logger:      log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Get("ws", c.ServeWs)

	h.Use(serverutils.JwtMiddleware)
	h.Post("messages", c.SendText)
	h.Post("attachments", c.SendAttachment)
	h.Get("history/:peerId", c.History)
	h.Get("conversations", c.Conversations)
}

func (c *chatController) SendText(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendText(ctx.Context(), userId, req.ReceiverId, req.Text)
	if err != nil {
		return mapChatError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) SendAttachment(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	receiverId, err := uuid.Parse(ctx.FormValue("receiver_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "receiver_id is required")
	}

	kind := codec.Kind(ctx.FormValue("kind"))
	switch kind {
	case codec.KindImage, codec.KindVoice, codec.KindFile:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "kind must be image, voice or file")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := c.chatService.SendAttachment(ctx.Context(), userId, receiverId, service.AttachmentUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Kind:        kind,
		Body:        file,
	})
	if err != nil {
		return mapChatError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send attachment", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	peerId, err := uuid.Parse(ctx.Params("peerId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid peer id")
	}

	limit, _ := strconv.Atoi(ctx.Query("limit", "0"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	res, err := c.chatService.History(ctx.Context(), userId, peerId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *chatController) Conversations(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.chatService.ConversationsFor(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

// wsInbound is one client frame on the chat socket.
type wsInbound struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// wsOutbound is one server frame on the chat socket.
type wsOutbound struct {
	Type     string                `json:"type"`
	Message  string                `json:"message,omitempty"`
	Data     *dto.MessageResponse  `json:"data,omitempty"`
	Messages []dto.MessageResponse `json:"messages,omitempty"`
	Degraded bool                  `json:"degraded,omitempty"`
}

// ServeWs upgrades to a live chat session with one peer. Auth token comes
// from the "token" query param or the Authorization header; the peer from
// the "peer" query param.
func (c *chatController) ServeWs(ctx *fiber.Ctx) error {
	userID, err := wsAuthenticate(ctx)
	if err != nil {
		c.logger.Warn("ChatController", "Rejected WS handshake", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	peerID, err := uuid.Parse(ctx.Query("peer"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid 'peer' query param"})
	}

	sess, err := session.New(userID, peerID, c.backend, c.uploader, c.feed)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("ChatController", "Starting chat session", map[string]interface{}{
			"user_id": userID, "peer_id": peerID,
		})
		c.runSession(conn, sess, userID, peerID)
		c.logger.Info("ChatController", "Chat session ended", map[string]interface{}{
			"user_id": userID, "peer_id": peerID,
		})
	})(ctx)
}

const (
	wsQueryTimeout = 10 * time.Second
	wsSendTimeout  = 30 * time.Second
)

func (c *chatController) runSession(conn *websocket.Conn, sess *session.Controller, userID, peerID uuid.UUID) {
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	openCtx, openCancel := context.WithTimeout(ctx, wsQueryTimeout)
	err := sess.Open(openCtx)
	openCancel()
	if err != nil {
		writeFrame(conn, wsOutbound{Type: "error", Message: err.Error()})
		return
	}

	// conn does not allow concurrent writers; the push goroutine below and
	// the read loop share it.
	var writeMu sync.Mutex
	write := func(out wsOutbound) {
		writeMu.Lock()
		defer writeMu.Unlock()
		writeFrame(conn, out)
	}

	history := sess.Messages()
	snapshot := make([]dto.MessageResponse, len(history))
	for i, m := range history {
		snapshot[i] = sessionMessageToDTO(m)
	}
	write(wsOutbound{Type: "history", Messages: snapshot, Degraded: sess.Degraded()})

	// The session controller merges live events into its sequence; this
	// subscription is the push pipe to the client.
	sub, err := c.feed.Subscribe(ctx, conversation.Derive(userID, peerID))
	if err == nil {
		defer sub.Close()
		go func() {
			for ev := range sub.Events() {
				res := realtimeEventToDTO(ev)
				write(wsOutbound{Type: "message", Data: &res})
			}
		}()
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var in wsInbound
		if err := json.Unmarshal(raw, &in); err != nil {
			write(wsOutbound{Type: "error", Message: "malformed frame"})
			continue
		}

		switch in.Type {
		case "text":
			sendCtx, sendCancel := context.WithTimeout(ctx, wsSendTimeout)
			msg, err := sess.SendText(sendCtx, in.Text)
			sendCancel()
			if err != nil {
				write(wsOutbound{Type: "error", Message: err.Error()})
				continue
			}
			res := sessionMessageToDTO(msg)
			write(wsOutbound{Type: "sent", Data: &res})
		default:
			write(wsOutbound{Type: "error", Message: "unknown frame type"})
		}
	}
}

func writeFrame(conn *websocket.Conn, out wsOutbound) {
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func realtimeEventToDTO(ev realtime.Event) dto.MessageResponse {
	return sessionMessageToDTO(session.Message{
		ID:         ev.ID,
		SenderID:   ev.SenderID,
		ReceiverID: ev.ReceiverID,
		Payload:    codec.Decode(ev.Message),
		CreatedAt:  ev.CreatedAt,
		Seq:        ev.Seq,
	})
}

func sessionMessageToDTO(m session.Message) dto.MessageResponse {
	res := dto.MessageResponse{
		Id:         m.ID,
		SenderId:   m.SenderID,
		ReceiverId: m.ReceiverID,
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

func mapChatError(err error) error {
	switch {
	case err == service.ErrSelfMessage:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case err == service.ErrReceiverNotFound:
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case err == codec.ErrTextTooLong:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

// wsAuthenticate extracts and validates the JWT on a websocket handshake.
func wsAuthenticate(ctx *fiber.Ctx) (uuid.UUID, error) {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token claims")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "token missing user_id")
	}
	return uuid.Parse(userIDStr)
}
