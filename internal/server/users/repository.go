package users

import (
	"context"
)

// Repository is the user store consumed by the session and profile
// services. Identifier lookups are case-normalized; updates touch exactly
// the columns they name and never re-trigger password hashing.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByIdentifier resolves a username OR an email, lowercased.
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	// UpdateRefreshToken overwrites the stored refresh token in a single
	// atomic UPDATE. A nil token clears the column to NULL (absent).
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	UpdateAccount(ctx context.Context, id string, fullName, email string) (*User, error)
	UpdateAvatarURL(ctx context.Context, id string, url string) (*User, error)
	UpdateCoverURL(ctx context.Context, id string, url string) (*User, error)
	GetChannelProfile(ctx context.Context, username string, viewerID string) (*ChannelProfile, error)
}
