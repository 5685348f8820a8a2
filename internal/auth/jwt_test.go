package auth

import (
	"errors"
	"testing"
	"time"
)

func TestParseToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := "test-secret"
	issued := Identity{UserID: "user-1", Email: "user@campus.edu", Role: "student"}

	token, err := GenerateToken(secret, issued, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	identity, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *identity != issued {
		t.Errorf("expected %+v, got %+v", issued, *identity)
	}
}

func TestParseToken_Rejections(t *testing.T) {
	t.Parallel()

	secret := "test-secret"
	identity := Identity{UserID: "user-1", Email: "user@campus.edu"}

	expired, err := GenerateToken(secret, identity, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken(secret, expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}

	wrongKey, err := GenerateToken("other-secret", identity, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken(secret, wrongKey); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong key, got %v", err)
	}

	if _, err := ParseToken(secret, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for malformed token, got %v", err)
	}

	anonymous, err := GenerateToken(secret, Identity{}, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken(secret, anonymous); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for empty subject, got %v", err)
	}
}
