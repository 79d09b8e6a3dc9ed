// Package sessions implements the credential/session lifecycle: login,
// refresh-token rotation, logout, and password changes. It owns the
// single-active-refresh-token invariant; token signing itself lives in the
// auth package and user persistence in the users package.
package sessions

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/auth"
	"github.com/dmitrijs2005/vidstream/internal/server/config"
	"github.com/dmitrijs2005/vidstream/internal/server/users"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo                         users.Repository
	accessTokenSecret            []byte
	refreshTokenSecret           []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewService(repo users.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		accessTokenSecret:            []byte(cfg.AccessTokenSecret),
		refreshTokenSecret:           []byte(cfg.RefreshTokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login resolves identifier (username or email), verifies the password and
// mints a fresh token pair. The new refresh token is persisted before the
// call returns, superseding whatever was stored.
func (s *Service) Login(ctx context.Context, identifier string, password string) (*users.User, *TokenPair, error) {

	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: identifier and password are required", common.ErrorValidation)
	}

	user, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, common.ErrInvalidCredentials
	}

	pair, err := s.rotate(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user.Sanitized(), pair, nil
}

// Refresh exchanges a valid, current refresh token for a new token pair.
// The presented token must both verify cryptographically and match the
// stored token byte for byte; a superseded token that still parses fails
// with ErrRefreshTokenStale.
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {

	if presented == "" {
		return nil, common.ErrInvalidRefreshToken
	}

	userID, err := auth.Verify(presented, auth.KindRefresh, s.refreshTokenSecret)
	if err != nil {
		return nil, common.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// do not reveal whether the token or the user is the problem
			return nil, common.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if user.RefreshToken == nil {
		return nil, common.ErrInvalidRefreshToken
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(*user.RefreshToken)) != 1 {
		return nil, common.ErrRefreshTokenStale
	}

	return s.rotate(ctx, user.ID)
}

// Logout clears the stored refresh token. The column is set to NULL, not
// an empty string. Idempotent: a second logout is not an error.
func (s *Service) Logout(ctx context.Context, userID string) error {
	err := s.repo.UpdateRefreshToken(ctx, userID, nil)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// ChangePassword verifies the old password and persists a hash of the new
// one. Refresh-token state is untouched: existing sessions stay valid.
// Password rotation and session invalidation are independent operations.
func (s *Service) ChangePassword(ctx context.Context, userID string, oldPassword, newPassword string) error {

	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", common.ErrorValidation)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// rotate mints a new access+refresh pair and persists the refresh token in
// a single UPDATE, atomically superseding the previous one. Any failure in
// here surfaces as ErrTokenIssuance; nothing is retried.
func (s *Service) rotate(ctx context.Context, userID string) (*TokenPair, error) {

	access, err := auth.Issue(userID, auth.KindAccess, s.accessTokenSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenIssuance, err)
	}

	refresh, err := auth.Issue(userID, auth.KindRefresh, s.refreshTokenSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenIssuance, err)
	}

	// direct single-column update: persisting a token never passes the
	// record through the password-hashing path
	if err := s.repo.UpdateRefreshToken(ctx, userID, &refresh); err != nil {
		return nil, fmt.Errorf("%w: persisting refresh token: %v", common.ErrTokenIssuance, err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
