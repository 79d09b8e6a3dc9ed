// Package auth implements the credential primitives of the server:
// signed access/refresh tokens and password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind discriminates the two token families. Access and refresh tokens are
// signed with distinct secrets, so a leaked access secret cannot be used to
// forge refresh tokens and vice versa.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the claim set carried by every vidstream token: the standard
// registered claims plus the user id and the token kind.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Kind   Kind   `json:"knd"`
}

// Issue produces a signed HS256 token for userID that expires after ttl.
// Every token carries a random jti, so two issues for the same user within
// the same second still produce distinct strings (rotation depends on it).
func Issue(userID string, kind Kind, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Kind:   kind,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify parses tokenString, checks its signature against secretKey and its
// kind claim against kind, and returns the embedded user id.
//
// The signing algorithm is pinned to HS256; tokens carrying any other alg
// (including "none") fail as malformed. Errors returned:
//   - common.ErrTokenExpired for structurally valid but expired tokens
//   - common.ErrTokenMalformed for bad signatures, wrong secrets or garbage
//   - common.ErrTokenWrongKind when the kind claim does not match
func Verify(tokenString string, kind Kind, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenMalformed):
		return "", common.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", common.ErrTokenExpired
	case err != nil:
		return "", common.ErrTokenMalformed
	}

	if !token.Valid {
		return "", common.ErrTokenMalformed
	}

	if claims.Kind != kind {
		return "", common.ErrTokenWrongKind
	}
	if claims.UserID == "" {
		return "", common.ErrTokenMalformed
	}

	return claims.UserID, nil
}
