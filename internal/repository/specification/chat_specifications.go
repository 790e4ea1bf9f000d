package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByConversationPair selects the messages exchanged between two users, in
// either direction. Order-insensitive: (A,B) and (B,A) select the same rows.
type ByConversationPair struct {
	A uuid.UUID
	B uuid.UUID
}

func (s ByConversationPair) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		s.A, s.B, s.B, s.A,
	)
}

// InvolvingUser selects every message the user sent or received.
type InvolvingUser struct {
	UserID uuid.UUID
}

func (s InvolvingUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sender_id = ? OR receiver_id = ?", s.UserID, s.UserID)
}

// ChronologicalOrder sorts by created_at with seq as the arrival-order
// tiebreaker.
type ChronologicalOrder struct {
	Desc bool
}

func (s ChronologicalOrder) Apply(db *gorm.DB) *gorm.DB {
	if s.Desc {
		return db.Order("created_at DESC, seq DESC")
	}
	return db.Order("created_at ASC, seq ASC")
}
