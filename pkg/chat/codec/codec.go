// Package codec collapses the four chat payload variants into the single text
// column the message store uses, and reconstructs them on read. The string
// format is shared with previously stored rows and must not change.
package codec

import (
	"errors"
	"strings"
)

// ErrTextTooLong rejects text bodies longer than MaxTextLen.
var ErrTextTooLong = errors.New("message text exceeds maximum length")

const (
	prefixImage = "[IMAGE]"
	prefixVoice = "[VOICE]"
	prefixFile  = "[FILE]"

	// MaxTextLen caps the body of a text message. Enforced by the chat
	// service on append, not by Encode.
	MaxTextLen = 500
)

// Kind tags a payload variant.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindVoice Kind = "voice"
	KindFile  Kind = "file"
)

// Payload is one of Text, Image, Voice or File. The variant is fixed at
// creation; messages are immutable once persisted.
type Payload interface {
	Kind() Kind
}

type Text struct {
	Body string
}

type Image struct {
	URL string
}

type Voice struct {
	URL string
}

type File struct {
	Name string
	URL  string
}

func (Text) Kind() Kind  { return KindText }
func (Image) Kind() Kind { return KindImage }
func (Voice) Kind() Kind { return KindVoice }
func (File) Kind() Kind  { return KindFile }

// Encode serializes a payload into the stored wire string.
// No escaping is performed: a text body that begins with a reserved prefix
// will be misclassified by Decode. Kept for compatibility with stored data.
func Encode(p Payload) string {
	switch v := p.(type) {
	case Image:
		return prefixImage + v.URL
	case Voice:
		return prefixVoice + v.URL
	case File:
		return prefixFile + v.Name + "|" + v.URL
	case Text:
		return v.Body
	default:
		return ""
	}
}

// Decode inspects the prefix in order Image, Voice, File and falls back to
// Text. Decode is total: a File payload missing its "|" separator decodes
// with the remainder as both name and URL, so rendering degrades instead of
// failing. A file name containing "|" does not round-trip (known ambiguity;
// the split is on the first separator).
func Decode(s string) Payload {
	switch {
	case strings.HasPrefix(s, prefixImage):
		return Image{URL: s[len(prefixImage):]}
	case strings.HasPrefix(s, prefixVoice):
		return Voice{URL: s[len(prefixVoice):]}
	case strings.HasPrefix(s, prefixFile):
		rest := s[len(prefixFile):]
		if name, url, ok := strings.Cut(rest, "|"); ok {
			return File{Name: name, URL: url}
		}
		return File{Name: rest, URL: rest}
	default:
		return Text{Body: s}
	}
}
