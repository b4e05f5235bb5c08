package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/batteriesproject/server/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := IssueToken("ana@example.com", "ana", secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Email != "ana@example.com" || claims.Name != "ana" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := IssueToken("u@example.com", "u", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseExpiredToken_AcceptsExpired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := IssueToken("u@example.com", "u", secret, -1*time.Minute)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	claims, err := ParseExpiredToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseExpiredToken error: %v", err)
	}
	if claims.Email != "u@example.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
}

func TestParseExpiredToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := IssueToken("u@example.com", "u", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	_, err = ParseExpiredToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseExpiredToken_WrongAlgorithm(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "u@example.com",
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = ParseExpiredToken(signed, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for HS384 token, got %v", err)
	}
}

func TestParseExpiredToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseExpiredToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestReissueFromClaims_FreshExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	expired, err := IssueToken("u@example.com", "u", secret, -1*time.Minute)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	claims, err := ParseExpiredToken(expired, secret)
	if err != nil {
		t.Fatalf("ParseExpiredToken error: %v", err)
	}

	fresh, err := ReissueFromClaims(claims, secret, 30*time.Minute)
	if err != nil {
		t.Fatalf("ReissueFromClaims error: %v", err)
	}

	got, err := ParseToken(fresh, secret)
	if err != nil {
		t.Fatalf("reissued token must validate: %v", err)
	}
	if got.Email != "u@example.com" || got.Name != "u" {
		t.Fatalf("identity not carried over: %+v", got)
	}
	if !got.ExpiresAt.After(time.Now()) {
		t.Fatalf("reissued token must have a future expiry, got %v", got.ExpiresAt)
	}
}
