package users

import "time"

// User is the persisted account record. PasswordHash and RefreshToken are
// credential fields owned by the session layer; they must never be
// serialized outward.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	AvatarURL    string
	CoverURL     string
	// RefreshToken holds the single currently valid refresh token, or nil
	// when the user has no active session. A refresh succeeds only if the
	// presented token matches this value exactly.
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy with the credential fields stripped, safe to
// hand to the transport layer.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = nil
	return &c
}

// ChannelProfile is the read-side aggregation returned for channel pages:
// the public user fields plus subscription counters relative to the viewer.
type ChannelProfile struct {
	ID                string
	Username          string
	Email             string
	FullName          string
	AvatarURL         string
	CoverURL          string
	SubscriberCount   int64
	SubscribedToCount int64
	IsSubscribed      bool
}
