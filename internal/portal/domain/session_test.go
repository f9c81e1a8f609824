package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionExpired(t *testing.T) {
	expires := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: expires}

	require.False(t, s.Expired(expires.Add(-time.Hour)))
	require.False(t, s.Expired(expires), "valid at the exact expiry instant")
	require.True(t, s.Expired(expires.Add(time.Nanosecond)))
}

func TestSessionExpiredMonotonic(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := Session{CreatedAt: created, ExpiresAt: created.AddDate(0, 1, 0)}

	// Once invalid, a session never becomes valid again as time moves on.
	seenExpired := false
	for at := created; at.Before(s.ExpiresAt.AddDate(0, 0, 3)); at = at.Add(7 * time.Hour) {
		if s.Expired(at) {
			seenExpired = true
			continue
		}
		require.False(t, seenExpired, "session valid again at %s", at)
	}
	require.True(t, seenExpired)
}
