package mapper

import (
	"testing"
	"time"

	"booton-be/internal/entity"
	"booton-be/internal/model"
	"booton-be/pkg/chat/codec"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMapperEncodesPayloadVariants(t *testing.T) {
	m := NewMessageMapper()

	tests := []struct {
		name    string
		payload codec.Payload
		content string
	}{
		{"text", codec.Text{Body: "see you saturday"}, "see you saturday"},
		{"image", codec.Image{URL: "http://blob/chat-images/a/b/p_1.jpg"}, "[IMAGE]http://blob/chat-images/a/b/p_1.jpg"},
		{"voice", codec.Voice{URL: "http://blob/chat-files/a/b/voice_1"}, "[VOICE]http://blob/chat-files/a/b/voice_1"},
		{"file", codec.File{Name: "plan.pdf", URL: "http://blob/chat-files/a/b/plan_1.pdf"}, "[FILE]plan.pdf|http://blob/chat-files/a/b/plan_1.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &entity.Message{
				Id:         uuid.New(),
				SenderId:   uuid.New(),
				ReceiverId: uuid.New(),
				Payload:    tt.payload,
				CreatedAt:  time.Unix(1700000000, 0),
				Seq:        4,
			}

			row := m.ToModel(msg)
			assert.Equal(t, tt.content, row.Content)

			back := m.ToEntity(row)
			require.NotNil(t, back)
			assert.Equal(t, tt.payload, back.Payload)
			assert.Equal(t, msg.Id, back.Id)
			assert.Equal(t, msg.Seq, back.Seq)
		})
	}
}

func TestMessageMapperNil(t *testing.T) {
	m := NewMessageMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}

func TestMessageMapperLegacyContent(t *testing.T) {
	m := NewMessageMapper()

	// Rows written before the file payloads carried a name keep decoding.
	row := &model.Message{
		Id:      uuid.New(),
		Content: "[FILE]http://blob/chat-files/a/b/old_1.pdf",
	}
	back := m.ToEntity(row)
	assert.Equal(t, codec.File{
		Name: "http://blob/chat-files/a/b/old_1.pdf",
		URL:  "http://blob/chat-files/a/b/old_1.pdf",
	}, back.Payload)
}
