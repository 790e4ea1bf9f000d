package realtime

import (
	"context"
	"testing"
	"time"

	"booton-be/pkg/chat/conversation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitEvent(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed before event arrived")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBrokerDeliversToConversationSubscriber(t *testing.T) {
	broker := NewBroker(nil)
	defer broker.Close()

	alice, bob := uuid.New(), uuid.New()
	sub, err := broker.Subscribe(context.Background(), conversation.Derive(alice, bob))
	require.NoError(t, err)
	defer sub.Close()

	want := Event{
		ID:         uuid.New(),
		SenderID:   alice,
		ReceiverID: bob,
		Message:    "hello coach",
		CreatedAt:  time.Now().UTC(),
		Seq:        1,
	}
	require.NoError(t, broker.Publish(context.Background(), want))

	got := waitEvent(t, sub)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Message, got.Message)
	assert.Equal(t, want.Seq, got.Seq)
}

func TestBrokerDeliversBothDirections(t *testing.T) {
	broker := NewBroker(nil)
	defer broker.Close()

	alice, bob := uuid.New(), uuid.New()
	sub, err := broker.Subscribe(context.Background(), conversation.Derive(alice, bob))
	require.NoError(t, err)
	defer sub.Close()

	first := Event{ID: uuid.New(), SenderID: alice, ReceiverID: bob, Message: "ping", Seq: 1}
	second := Event{ID: uuid.New(), SenderID: bob, ReceiverID: alice, Message: "pong", Seq: 2}
	require.NoError(t, broker.Publish(context.Background(), first))
	require.NoError(t, broker.Publish(context.Background(), second))

	assert.Equal(t, first.ID, waitEvent(t, sub).ID)
	assert.Equal(t, second.ID, waitEvent(t, sub).ID)
}

func TestBrokerFiltersOtherConversations(t *testing.T) {
	broker := NewBroker(nil)
	defer broker.Close()

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	sub, err := broker.Subscribe(context.Background(), conversation.Derive(alice, bob))
	require.NoError(t, err)
	defer sub.Close()

	foreign := Event{ID: uuid.New(), SenderID: alice, ReceiverID: carol, Message: "private", Seq: 1}
	mine := Event{ID: uuid.New(), SenderID: bob, ReceiverID: alice, Message: "for us", Seq: 2}
	require.NoError(t, broker.Publish(context.Background(), foreign))
	require.NoError(t, broker.Publish(context.Background(), mine))

	got := waitEvent(t, sub)
	assert.Equal(t, mine.ID, got.ID)
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	broker := NewBroker(nil)
	defer broker.Close()

	alice, bob := uuid.New(), uuid.New()
	sub, err := broker.Subscribe(context.Background(), conversation.Derive(alice, bob))
	require.NoError(t, err)

	sub.Close()

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close")
	}
}
