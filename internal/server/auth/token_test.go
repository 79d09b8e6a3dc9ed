package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := "user-123"

	tok, err := Issue(userID, KindAccess, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	gotUserID, err := Verify(tok, KindAccess, secret)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if gotUserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", gotUserID, userID)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := Issue("u1", KindAccess, secret, -1*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = Verify(tok, KindAccess, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_ZeroTTLIsExpired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := Issue("u1", KindAccess, secret, 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = Verify(tok, KindAccess, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := Issue("u2", KindAccess, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = Verify(tok, KindAccess, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected common.ErrTokenMalformed, got %v", err)
	}
}

func TestVerify_WrongKind(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := Issue("u3", KindRefresh, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = Verify(tok, KindAccess, secret)
	if !errors.Is(err, common.ErrTokenWrongKind) {
		t.Fatalf("expected common.ErrTokenWrongKind, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := Verify("not.a.jwt", KindAccess, []byte("k"))
	if !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected common.ErrTokenMalformed, got %v", err)
	}
}

func TestVerify_NoneAlgorithmRejected(t *testing.T) {
	t.Parallel()

	// forge an unsigned token carrying the same claim set
	forged := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "u4",
		Kind:   KindAccess,
	})
	tok, err := forged.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing forged token: %v", err)
	}

	_, err = Verify(tok, KindAccess, []byte("k"))
	if !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected common.ErrTokenMalformed, got %v", err)
	}
}

func TestVerify_AccessSecretCannotVerifyRefresh(t *testing.T) {
	t.Parallel()

	accessSecret := []byte("access-secret")
	refreshSecret := []byte("refresh-secret")

	tok, err := Issue("u5", KindRefresh, refreshSecret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = Verify(tok, KindRefresh, accessSecret)
	if !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected common.ErrTokenMalformed, got %v", err)
	}
}

func TestIssue_TokensDiffer(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	a, err := Issue("u6", KindRefresh, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	b, err := Issue("u6", KindRefresh, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct tokens for successive issues")
	}
	if strings.Count(a, ".") != 2 {
		t.Fatalf("expected a compact JWS, got %q", a)
	}
}
