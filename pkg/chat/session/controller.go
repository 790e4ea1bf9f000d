package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"booton-be/pkg/chat/codec"
	"booton-be/pkg/chat/conversation"
	"booton-be/pkg/chat/realtime"
	"booton-be/pkg/storage"

	"github.com/google/uuid"
)

// State of a chat session controller.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateSending
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	ErrSelfConversation = errors.New("cannot open a conversation with yourself")
	ErrNotReady         = errors.New("session is not ready")
	ErrSendInFlight     = errors.New("another send is already in flight")
	ErrSessionClosed    = errors.New("session is closed")
	ErrAlreadyOpened    = errors.New("session was already opened")
)

// Message is one entry in the session's ordered sequence.
type Message struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Payload    codec.Payload
	CreatedAt  time.Time
	Seq        int64
}

// Store is the durable message record store.
type Store interface {
	History(ctx context.Context, a, b uuid.UUID) ([]Message, error)
	Append(ctx context.Context, senderID, receiverID uuid.UUID, payload codec.Payload) (Message, error)
}

// Attachments uploads attachment bytes and returns a fetchable URL.
type Attachments interface {
	Upload(ctx context.Context, in storage.UploadInput) (string, error)
}

// Subscription is a live event feed for one conversation.
type Subscription interface {
	Events() <-chan realtime.Event
	Close()
}

// Feed opens realtime subscriptions.
type Feed interface {
	Subscribe(ctx context.Context, key conversation.Key) (Subscription, error)
}

// Controller orchestrates one open conversation: it loads history, holds
// the realtime subscription, sends outgoing messages and keeps the ordered
// in-memory sequence consistent. One outstanding send at a time per
// controller; independent controllers do not affect each other.
type Controller struct {
	self  uuid.UUID
	peer  uuid.UUID
	key   conversation.Key
	store Store
	files Attachments
	feed  Feed

	mu       sync.Mutex
	state    State
	gen      uint64
	messages []Message
	seen     map[uuid.UUID]struct{}
	sub      Subscription
	feedStop context.CancelFunc
	degraded bool
}

// New builds an idle controller for the conversation between self and peer.
func New(self, peer uuid.UUID, store Store, files Attachments, feed Feed) (*Controller, error) {
	if self == uuid.Nil || peer == uuid.Nil {
		return nil, fmt.Errorf("both participants are required")
	}
	if self == peer {
		return nil, ErrSelfConversation
	}
	return &Controller{
		self:  self,
		peer:  peer,
		key:   conversation.Derive(self, peer),
		store: store,
		files: files,
		feed:  feed,
		state: StateIdle,
		seen:  make(map[uuid.UUID]struct{}),
	}, nil
}

// Open loads history and attaches the realtime feed. On history failure the
// controller returns to idle and may be opened again. A feed failure does
// not fail Open: the session enters ready in degraded mode, with live
// updates unavailable but history intact.
func (c *Controller) Open(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateClosed:
		c.mu.Unlock()
		return ErrSessionClosed
	case StateIdle:
	default:
		c.mu.Unlock()
		return ErrAlreadyOpened
	}
	c.state = StateLoading
	gen := c.gen

	// The subscription outlives Open, so it gets the controller's own
	// context, cancelled in Close, never the caller's.
	feedCtx, feedStop := context.WithCancel(context.Background())
	c.feedStop = feedStop
	c.mu.Unlock()

	// Attach the feed before reading history: a message appended during the
	// read still arrives through the subscription, and dedupe by id
	// collapses the overlap with the history rows.
	sub, subErr := c.feed.Subscribe(feedCtx, c.key)

	history, err := c.store.History(ctx, c.self, c.peer)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.state == StateClosed {
		if sub != nil {
			sub.Close()
		}
		feedStop()
		return ErrSessionClosed
	}
	if err != nil {
		if sub != nil {
			sub.Close()
		}
		feedStop()
		c.feedStop = nil
		c.state = StateIdle
		return fmt.Errorf("failed to load history: %w", err)
	}

	for _, m := range history {
		c.insertLocked(m)
	}

	if subErr != nil {
		c.degraded = true
	} else {
		c.sub = sub
		go c.consume(sub, gen)
	}

	c.state = StateReady
	return nil
}

// SendText appends a text message. Single flight: a second send while one
// is outstanding fails with ErrSendInFlight.
func (c *Controller) SendText(ctx context.Context, body string) (Message, error) {
	if len(body) > codec.MaxTextLen {
		return Message{}, codec.ErrTextTooLong
	}
	return c.send(ctx, func(ctx context.Context) (Message, error) {
		return c.store.Append(ctx, c.self, c.peer, codec.Text{Body: body})
	})
}

// AttachmentInput describes one outgoing attachment.
type AttachmentInput struct {
	FileName    string
	ContentType string
	Kind        codec.Kind
	Body        io.Reader
}

// SendAttachment uploads the attachment bytes and appends the resulting
// message. Upload and append are one send for single-flight purposes.
func (c *Controller) SendAttachment(ctx context.Context, in AttachmentInput) (Message, error) {
	return c.send(ctx, func(ctx context.Context) (Message, error) {
		url, err := c.files.Upload(ctx, storage.UploadInput{
			SenderID:    c.self,
			ReceiverID:  c.peer,
			FileName:    in.FileName,
			ContentType: in.ContentType,
			Kind:        string(in.Kind),
			Body:        in.Body,
		})
		if err != nil {
			return Message{}, err
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
		return c.store.Append(ctx, c.self, c.peer, payload)
	})
}

// send runs op under the sending substate. If the session is closed while
// op is in flight, the stored result is returned but never merged into the
// closed session's sequence.
func (c *Controller) send(ctx context.Context, op func(context.Context) (Message, error)) (Message, error) {
	c.mu.Lock()
	switch c.state {
	case StateReady:
	case StateSending:
		c.mu.Unlock()
		return Message{}, ErrSendInFlight
	case StateClosed:
		c.mu.Unlock()
		return Message{}, ErrSessionClosed
	default:
		c.mu.Unlock()
		return Message{}, ErrNotReady
	}
	c.state = StateSending
	gen := c.gen
	c.mu.Unlock()

	msg, err := op(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.state == StateClosed {
		// Late result of a closed session. The message may well be stored;
		// hand it back without touching local state.
		return msg, err
	}
	c.state = StateReady
	if err != nil {
		return Message{}, err
	}
	c.insertLocked(msg)
	return msg, nil
}

// Messages returns a copy of the ordered in-memory sequence.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Degraded reports whether the session is running without live updates.
func (c *Controller) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// Close releases the subscription and retires the controller. It is
// idempotent; a closed controller must not be reused.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	c.gen++
	sub := c.sub
	c.sub = nil
	feedStop := c.feedStop
	c.feedStop = nil
	c.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	if feedStop != nil {
		feedStop()
	}
}

func (c *Controller) consume(sub Subscription, gen uint64) {
	for ev := range sub.Events() {
		payload := codec.Decode(ev.Message)
		msg := Message{
			ID:         ev.ID,
			SenderID:   ev.SenderID,
			ReceiverID: ev.ReceiverID,
			Payload:    payload,
			CreatedAt:  ev.CreatedAt,
			Seq:        ev.Seq,
		}

		c.mu.Lock()
		if c.gen != gen || c.state == StateClosed {
			c.mu.Unlock()
			return
		}
		c.insertLocked(msg)
		c.mu.Unlock()
	}

	// The event channel closed under a live session: the push pipe is gone,
	// flag degraded so the client knows to reconnect.
	c.mu.Lock()
	if c.gen == gen && c.state != StateClosed {
		c.degraded = true
	}
	c.mu.Unlock()
}

// insertLocked merges one message into the ordered sequence, dropping
// duplicates by id. Ordering key is (CreatedAt, Seq). Caller holds c.mu.
func (c *Controller) insertLocked(m Message) {
	if _, dup := c.seen[m.ID]; dup {
		return
	}
	c.seen[m.ID] = struct{}{}

	i := sort.Search(len(c.messages), func(i int) bool {
		other := c.messages[i]
		if !other.CreatedAt.Equal(m.CreatedAt) {
			return other.CreatedAt.After(m.CreatedAt)
		}
		return other.Seq > m.Seq
	})
	c.messages = append(c.messages, Message{})
	copy(c.messages[i+1:], c.messages[i:])
	c.messages[i] = m
}
