package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("roundtrip-secret", time.Hour)

	userID := uuid.New()
	token, err := GenerateToken(userID)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != userID {
		t.Fatalf("parsed user = %v; want %v", got, userID)
	}
}

func TestParseToken_Expired(t *testing.T) {
	InitJWT("roundtrip-secret", time.Hour)

	stale := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(-time.Minute).Unix(),
		"iat":     time.Now().Add(-time.Hour).Unix(),
	})
	token, err := stale.SignedString([]byte("roundtrip-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	InitJWT("secret-a", time.Hour)
	token, err := GenerateToken(uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	InitJWT("secret-b", time.Hour)
	if _, err := ParseToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	InitJWT("roundtrip-secret", time.Hour)
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}
