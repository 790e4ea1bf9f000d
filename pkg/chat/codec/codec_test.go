package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{
			name:    "text is stored raw",
			payload: Text{Body: "hi coach"},
			want:    "hi coach",
		},
		{
			name:    "image",
			payload: Image{URL: "https://x/y.jpg"},
			want:    "[IMAGE]https://x/y.jpg",
		},
		{
			name:    "voice",
			payload: Voice{URL: "https://x/v.caf"},
			want:    "[VOICE]https://x/v.caf",
		},
		{
			name:    "file carries name and url",
			payload: File{Name: "report.pdf", URL: "https://x/z"},
			want:    "[FILE]report.pdf|https://x/z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.payload))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		wire string
		want Payload
	}{
		{
			name: "plain text",
			wire: "see you at practice",
			want: Text{Body: "see you at practice"},
		},
		{
			name: "image",
			wire: "[IMAGE]https://x/y.jpg",
			want: Image{URL: "https://x/y.jpg"},
		},
		{
			name: "voice",
			wire: "[VOICE]https://x/v.caf",
			want: Voice{URL: "https://x/v.caf"},
		},
		{
			name: "file splits on the first pipe",
			wire: "[FILE]drill|plan.pdf|https://x/z",
			want: File{Name: "drill", URL: "plan.pdf|https://x/z"},
		},
		{
			name: "malformed file falls back to remainder for both fields",
			wire: "[FILE]orphaned.pdf",
			want: File{Name: "orphaned.pdf", URL: "orphaned.pdf"},
		},
		{
			name: "empty string is empty text",
			wire: "",
			want: Text{Body: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.wire))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	payloads := []Payload{
		Text{Body: "hi"},
		Image{URL: "https://x/y.jpg"},
		Voice{URL: "https://x/v.caf"},
		File{Name: "report.pdf", URL: "https://x/z"},
	}

	for _, p := range payloads {
		assert.Equal(t, p, Decode(Encode(p)))
	}
}

// A text body starting with a reserved prefix decodes as the attachment
// variant. That fragility is part of the stored format and is preserved.
func TestReservedPrefixMisclassification(t *testing.T) {
	got := Decode(Encode(Text{Body: "[IMAGE]not really"}))
	assert.Equal(t, Image{URL: "not really"}, got)
}
