package conversation

import (
	"github.com/google/uuid"
)

// Key identifies the two-party conversation between an unordered pair of
// participants. It is derived, never persisted: realtime subscription filters
// and history queries are the only consumers.
type Key string

// Derive returns the same Key for (a, b) and (b, a).
// Self-pairing is not rejected here; the chat session controller does that.
func Derive(a, b uuid.UUID) Key {
	lo, hi := a.String(), b.String()
	if hi < lo {
		lo, hi = hi, lo
	}
	return Key(lo + ":" + hi)
}

// Matches reports whether the pair (sender, receiver) belongs to this key's
// conversation. Used for client-side filtering of realtime events.
func (k Key) Matches(sender, receiver uuid.UUID) bool {
	return Derive(sender, receiver) == k
}
