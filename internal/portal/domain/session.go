package domain

import "time"

// Session is a stored auth token. The ID is the opaque value carried in the
// session cookie.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at now. A session is
// still valid at the exact instant it expires.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionWithUser is a Session joined with the role information of its owner,
// used by admin-gated pages.
type SessionWithUser struct {
	Session
	Email   string
	IsAdmin bool
}
