package models

// Session binds a signed-in browser to the remote API token it acts with.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// MemberID is the remote user id.
	MemberID int64

	// RemoteToken is sent as "Authorization: Token <RemoteToken>" to the remote API.
	RemoteToken string

	CreatedAt int64
	ExpiresAt int64
}

// Expired reports whether the session is no longer usable at unix time now.
func (s *Session) Expired(now int64) bool {
	return s.ExpiresAt != 0 && now >= s.ExpiresAt
}
