package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"booton-be/internal/entity"
	"booton-be/internal/repository/specification"
	"booton-be/internal/repository/unitofwork"
	"booton-be/pkg/chat/codec"
	"booton-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	return unitofwork.NewRepositoryFactory(gormDB)
}

func createTestUser(t *testing.T, uow unitofwork.UnitOfWork, name string) *entity.User {
	t.Helper()
	u := &entity.User{
		Id:       uuid.New(),
		FullName: name,
		Email:    uuid.NewString() + "@integration.test",
		Role:     entity.RolePlayer,
	}
	require.NoError(t, uow.UserRepository().Create(context.Background(), u))
	t.Cleanup(func() {
		_ = uow.UserRepository().Delete(context.Background(), u.Id)
	})
	return u
}

func TestMessageRoundTrip(t *testing.T) {
	factory := setupFactory(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	alice := createTestUser(t, uow, "Alice Integration")
	bob := createTestUser(t, uow, "Bob Integration")

	msg := &entity.Message{
		Id:         uuid.New(),
		SenderId:   alice.Id,
		ReceiverId: bob.Id,
		Payload:    codec.Text{Body: "hello from integration"},
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, uow.MessageRepository().Create(ctx, msg))
	assert.NotZero(t, msg.Seq, "database should assign a sequence number")

	history, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationPair{A: alice.Id, B: bob.Id},
		specification.ChronologicalOrder{},
	)
	require.NoError(t, err)
	require.Len(t, history, 1)

	text, ok := history[0].Payload.(codec.Text)
	require.True(t, ok)
	assert.Equal(t, "hello from integration", text.Body)
	assert.Equal(t, msg.Seq, history[0].Seq)
}

func TestSameTimestampOrdering(t *testing.T) {
	factory := setupFactory(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	alice := createTestUser(t, uow, "Alice Ordering")
	bob := createTestUser(t, uow, "Bob Ordering")

	// Identical created_at on purpose: seq must break the tie.
	at := time.Now().UTC().Truncate(time.Second)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		msg := &entity.Message{
			Id:         uuid.New(),
			SenderId:   alice.Id,
			ReceiverId: bob.Id,
			Payload:    codec.Text{Body: "burst"},
			CreatedAt:  at,
		}
		require.NoError(t, uow.MessageRepository().Create(ctx, msg))
		ids = append(ids, msg.Id)
	}

	history, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationPair{A: alice.Id, B: bob.Id},
		specification.ChronologicalOrder{},
	)
	require.NoError(t, err)
	require.Len(t, history, 3)

	for i, m := range history {
		assert.Equal(t, ids[i], m.Id, "insertion order must survive identical timestamps")
		if i > 0 {
			assert.Greater(t, m.Seq, history[i-1].Seq)
		}
	}
}
