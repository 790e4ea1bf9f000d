package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"booton-be/pkg/chat/codec"
	"booton-be/pkg/chat/conversation"
	"booton-be/pkg/chat/realtime"
	"booton-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu          sync.Mutex
	history     []Message
	historyErr  error
	historyGate chan struct{}
	appendErr   error
	appendGate  chan struct{}
	seq         int64
	now         time.Time
}

func (f *fakeStore) History(_ context.Context, _, _ uuid.UUID) ([]Message, error) {
	if f.historyGate != nil {
		<-f.historyGate
	}
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeStore) Append(_ context.Context, senderID, receiverID uuid.UUID, payload codec.Payload) (Message, error) {
	if f.appendGate != nil {
		<-f.appendGate
	}
	if f.appendErr != nil {
		return Message{}, f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	created := f.now
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Payload:    payload,
		CreatedAt:  created,
		Seq:        f.seq,
	}, nil
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(_ context.Context, in storage.UploadInput) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.url != "" {
		return f.url, nil
	}
	return "http://blob/chat-files/" + in.FileName, nil
}

type fakeFeed struct {
	mu   sync.Mutex
	err  error
	subs []*fakeSubscription
}

func (f *fakeFeed) Subscribe(_ context.Context, _ conversation.Key) (Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	sub := &fakeSubscription{ch: make(chan realtime.Event, 16)}
	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()
	return sub, nil
}

func (f *fakeFeed) sub(n int) *fakeSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.subs) <= n {
		return nil
	}
	return f.subs[n]
}

// ctxBoundFeed tears its subscription down when the subscribe context is
// cancelled, like the watermill broker does.
type ctxBoundFeed struct {
	fakeFeed
}

func (f *ctxBoundFeed) Subscribe(ctx context.Context, key conversation.Key) (Subscription, error) {
	sub, err := f.fakeFeed.Subscribe(ctx, key)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		sub.(*fakeSubscription).Close()
	}()
	return sub, nil
}

type fakeSubscription struct {
	ch     chan realtime.Event
	closed bool
	mu     sync.Mutex
}

func (s *fakeSubscription) Events() <-chan realtime.Event { return s.ch }

func (s *fakeSubscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *fakeSubscription) push(ev realtime.Event) { s.ch <- ev }

func newReadyController(t *testing.T, store *fakeStore, feed *fakeFeed) *Controller {
	t.Helper()
	c, err := New(uuid.New(), uuid.New(), store, &fakeUploader{}, feed)
	require.NoError(t, err)
	require.NoError(t, c.Open(context.Background()))
	require.Equal(t, StateReady, c.State())
	return c
}

func waitForMessages(t *testing.T, c *Controller, n int) []Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msgs := c.Messages()
		if len(msgs) >= n {
			return msgs
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d messages, have %d", n, len(c.Messages()))
	return nil
}

func TestNewRejectsSelfConversation(t *testing.T) {
	id := uuid.New()
	_, err := New(id, id, &fakeStore{}, &fakeUploader{}, &fakeFeed{})
	assert.ErrorIs(t, err, ErrSelfConversation)
}

func TestOpenLoadsHistoryAndSubscribes(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	store := &fakeStore{history: []Message{
		{ID: uuid.New(), SenderID: a, ReceiverID: b, Payload: codec.Text{Body: "hi"}, CreatedAt: time.Unix(1, 0), Seq: 1},
		{ID: uuid.New(), SenderID: b, ReceiverID: a, Payload: codec.Text{Body: "hello"}, CreatedAt: time.Unix(2, 0), Seq: 2},
	}}
	feed := &fakeFeed{}

	c := newReadyController(t, store, feed)
	defer c.Close()

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, codec.Text{Body: "hi"}, msgs[0].Payload)
	assert.False(t, c.Degraded())
	require.Len(t, feed.subs, 1)
}

func TestOpenHistoryFailureReturnsToIdle(t *testing.T) {
	store := &fakeStore{historyErr: errors.New("db down")}
	c, err := New(uuid.New(), uuid.New(), store, &fakeUploader{}, &fakeFeed{})
	require.NoError(t, err)

	err = c.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateIdle, c.State())

	// A failed open may be retried.
	store.historyErr = nil
	require.NoError(t, c.Open(context.Background()))
	assert.Equal(t, StateReady, c.State())
}

func TestOpenFeedFailureEntersDegradedMode(t *testing.T) {
	c, err := New(uuid.New(), uuid.New(), &fakeStore{}, &fakeUploader{}, &fakeFeed{err: errors.New("connect refused")})
	require.NoError(t, err)

	require.NoError(t, c.Open(context.Background()))
	assert.Equal(t, StateReady, c.State())
	assert.True(t, c.Degraded())
}

func TestFeedSurvivesOpenContextCancellation(t *testing.T) {
	feed := &ctxBoundFeed{}
	c, err := New(uuid.New(), uuid.New(), &fakeStore{}, &fakeUploader{}, feed)
	require.NoError(t, err)
	defer c.Close()

	// The websocket handler opens under a deadline and cancels as soon as
	// Open returns; the subscription must not die with that context.
	openCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	require.NoError(t, c.Open(openCtx))
	cancel()
	time.Sleep(20 * time.Millisecond)

	sub := feed.sub(0)
	require.NotNil(t, sub)
	sub.mu.Lock()
	closedEarly := sub.closed
	sub.mu.Unlock()
	require.False(t, closedEarly, "subscription torn down with the open context")

	sub.push(realtime.Event{ID: uuid.New(), Message: "after open", CreatedAt: time.Unix(5, 0), Seq: 1})

	msgs := waitForMessages(t, c, 1)
	assert.Equal(t, codec.Text{Body: "after open"}, msgs[0].Payload)
	assert.False(t, c.Degraded())
}

func TestFeedLossFlagsDegraded(t *testing.T) {
	feed := &fakeFeed{}
	c := newReadyController(t, &fakeStore{}, feed)
	defer c.Close()

	require.False(t, c.Degraded())
	feed.subs[0].Close()

	deadline := time.Now().Add(2 * time.Second)
	for !c.Degraded() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, c.Degraded())
	assert.Equal(t, StateReady, c.State())
}

func TestMessageDuringHistoryReadArrivesViaFeed(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeStore{historyGate: gate}
	feed := &fakeFeed{}
	c, err := New(uuid.New(), uuid.New(), store, &fakeUploader{}, feed)
	require.NoError(t, err)

	opened := make(chan error, 1)
	go func() { opened <- c.Open(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for feed.sub(0) == nil && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	sub := feed.sub(0)
	require.NotNil(t, sub)
	sub.push(realtime.Event{ID: uuid.New(), Message: "while loading", CreatedAt: time.Unix(3, 0), Seq: 1})

	close(gate)
	require.NoError(t, <-opened)
	defer c.Close()

	msgs := waitForMessages(t, c, 1)
	assert.Equal(t, codec.Text{Body: "while loading"}, msgs[0].Payload)
}

func TestSendTextAppendsAndReturnsStoredMessage(t *testing.T) {
	store := &fakeStore{}
	c := newReadyController(t, store, &fakeFeed{})
	defer c.Close()

	msg, err := c.SendText(context.Background(), "see you at practice")
	require.NoError(t, err)
	assert.Equal(t, codec.Text{Body: "see you at practice"}, msg.Payload)
	assert.Equal(t, StateReady, c.State())

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, msg.ID, msgs[0].ID)
}

func TestSendTextTooLong(t *testing.T) {
	c := newReadyController(t, &fakeStore{}, &fakeFeed{})
	defer c.Close()

	_, err := c.SendText(context.Background(), strings.Repeat("a", codec.MaxTextLen+1))
	assert.ErrorIs(t, err, codec.ErrTextTooLong)
	assert.Equal(t, StateReady, c.State())
}

func TestSendSingleFlight(t *testing.T) {
	store := &fakeStore{appendGate: make(chan struct{})}
	c := newReadyController(t, store, &fakeFeed{})
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.SendText(context.Background(), "first")
		assert.NoError(t, err)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for c.State() != StateSending && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, StateSending, c.State())

	_, err := c.SendText(context.Background(), "second")
	assert.ErrorIs(t, err, ErrSendInFlight)

	close(store.appendGate)
	<-done
	assert.Equal(t, StateReady, c.State())
}

func TestSendFailureReturnsToReady(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("insert failed")}
	c := newReadyController(t, store, &fakeFeed{})
	defer c.Close()

	_, err := c.SendText(context.Background(), "lost")
	require.Error(t, err)
	assert.Equal(t, StateReady, c.State())
	assert.Empty(t, c.Messages())
}

func TestSendAttachmentBuildsPayloadByKind(t *testing.T) {
	up := &fakeUploader{url: "http://blob/signed/chat-images/p.jpg"}
	c, err := New(uuid.New(), uuid.New(), &fakeStore{}, up, &fakeFeed{})
	require.NoError(t, err)
	require.NoError(t, c.Open(context.Background()))
	defer c.Close()

	msg, err := c.SendAttachment(context.Background(), AttachmentInput{
		FileName:    "p.jpg",
		ContentType: "image/jpeg",
		Kind:        codec.KindImage,
		Body:        strings.NewReader("jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, codec.Image{URL: "http://blob/signed/chat-images/p.jpg"}, msg.Payload)
}

func TestSendAttachmentUploadFailure(t *testing.T) {
	up := &fakeUploader{err: &storage.UploadError{Bucket: "chat-images", MissingTarget: true, Err: storage.ErrBucketNotFound}}
	c, err := New(uuid.New(), uuid.New(), &fakeStore{}, up, &fakeFeed{})
	require.NoError(t, err)
	require.NoError(t, c.Open(context.Background()))
	defer c.Close()

	_, err = c.SendAttachment(context.Background(), AttachmentInput{
		FileName: "p.jpg",
		Kind:     codec.KindImage,
		Body:     strings.NewReader("jpg"),
	})
	assert.ErrorIs(t, err, storage.ErrBucketNotFound)
	assert.Equal(t, StateReady, c.State())
	assert.Empty(t, c.Messages())
}

func TestRealtimeEventsDeduplicatedByID(t *testing.T) {
	feed := &fakeFeed{}
	c := newReadyController(t, &fakeStore{}, feed)
	defer c.Close()

	ev := realtime.Event{
		ID:        uuid.New(),
		SenderID:  uuid.New(),
		Message:   "hello",
		CreatedAt: time.Unix(10, 0),
		Seq:       1,
	}
	feed.subs[0].push(ev)
	feed.subs[0].push(ev)

	other := ev
	other.ID = uuid.New()
	other.Seq = 2
	feed.subs[0].push(other)

	msgs := waitForMessages(t, c, 2)
	assert.Len(t, msgs, 2)
}

func TestOwnEchoNotDuplicated(t *testing.T) {
	store := &fakeStore{now: time.Unix(100, 0)}
	feed := &fakeFeed{}
	c := newReadyController(t, store, feed)
	defer c.Close()

	msg, err := c.SendText(context.Background(), "hi")
	require.NoError(t, err)

	// The broker echoes the sender's own append back on the feed.
	feed.subs[0].push(realtime.Event{
		ID:        msg.ID,
		SenderID:  msg.SenderID,
		Message:   codec.Encode(msg.Payload),
		CreatedAt: msg.CreatedAt,
		Seq:       msg.Seq,
	})

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, c.Messages(), 1)
}

func TestOrderingByCreatedAtThenSeq(t *testing.T) {
	feed := &fakeFeed{}
	c := newReadyController(t, &fakeStore{}, feed)
	defer c.Close()

	ts := time.Unix(50, 0)
	late := realtime.Event{ID: uuid.New(), Message: "late", CreatedAt: ts, Seq: 7}
	early := realtime.Event{ID: uuid.New(), Message: "early", CreatedAt: ts, Seq: 3}
	older := realtime.Event{ID: uuid.New(), Message: "older", CreatedAt: ts.Add(-time.Second), Seq: 9}

	feed.subs[0].push(late)
	feed.subs[0].push(early)
	feed.subs[0].push(older)

	msgs := waitForMessages(t, c, 3)
	var bodies []string
	for _, m := range msgs {
		bodies = append(bodies, m.Payload.(codec.Text).Body)
	}
	assert.Equal(t, []string{"older", "early", "late"}, bodies)
}

func TestCloseReleasesSubscription(t *testing.T) {
	feed := &fakeFeed{}
	c := newReadyController(t, &fakeStore{}, feed)

	c.Close()
	assert.Equal(t, StateClosed, c.State())
	require.Len(t, feed.subs, 1)
	assert.True(t, feed.subs[0].closed)

	// A deliberate close is not a degraded feed.
	time.Sleep(20 * time.Millisecond)
	assert.False(t, c.Degraded())

	_, err := c.SendText(context.Background(), "too late")
	assert.ErrorIs(t, err, ErrSessionClosed)

	// Close is idempotent.
	c.Close()
}

func TestCloseDuringInFlightSendDiscardsLateResult(t *testing.T) {
	store := &fakeStore{appendGate: make(chan struct{})}
	c := newReadyController(t, store, &fakeFeed{})

	results := make(chan error, 1)
	go func() {
		_, err := c.SendText(context.Background(), "in flight")
		results <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for c.State() != StateSending && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, StateSending, c.State())

	c.Close()
	close(store.appendGate)

	select {
	case err := <-results:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("send did not return")
	}

	assert.Equal(t, StateClosed, c.State())
	assert.Empty(t, c.Messages())
}

func TestOpenTwiceRejected(t *testing.T) {
	c := newReadyController(t, &fakeStore{}, &fakeFeed{})
	defer c.Close()

	err := c.Open(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyOpened)
}

func TestIndependentControllers(t *testing.T) {
	store := &fakeStore{appendGate: make(chan struct{})}
	feed := &fakeFeed{}

	first := newReadyController(t, store, feed)
	defer first.Close()
	second := newReadyController(t, &fakeStore{}, feed)
	defer second.Close()

	go func() {
		first.SendText(context.Background(), "blocked")
	}()
	deadline := time.Now().Add(2 * time.Second)
	for first.State() != StateSending && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, StateSending, first.State())

	_, err := second.SendText(context.Background(), fmt.Sprintf("independent %d", 1))
	assert.NoError(t, err)

	close(store.appendGate)
}
