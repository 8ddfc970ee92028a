package model

import "time"

// Session is the per-visitor context that owns the guest to user hand-off.
type Session struct {
	GuestID   string     `json:"guestId"`
	UserID    string     `json:"userId,omitempty"`
	Merged    bool       `json:"merged"`
	CreatedAt time.Time  `json:"createdAt"`
	MergedAt  *time.Time `json:"mergedAt,omitempty"`
}

// Authenticated reports whether the session is bound to a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Owner returns the id that owns the session's cart and wishlist.
func (s *Session) Owner() string {
	if s.Authenticated() {
		return s.UserID
	}
	return s.GuestID
}

// SessionResponse is returned when a session is created or resolved.
type SessionResponse struct {
	Session *Session `json:"session"`
}

// MergeResponse is returned after a guest session is merged into a user account.
type MergeResponse struct {
	Session  *Session       `json:"session"`
	Cart     CartResponse   `json:"cart"`
	Wishlist []WishlistItem `json:"wishlist"`
}
