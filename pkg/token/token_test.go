package token

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	tokenString, err := Generate("secret", 42, "ada", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	userID, username, err := Parse("secret", tokenString)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 || username != "ada" {
		t.Fatalf("expected 42/ada, got %d/%s", userID, username)
	}
}

func TestParseWrongSecret(t *testing.T) {
	tokenString, err := Generate("secret", 42, "ada", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := Parse("other-secret", tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseExpired(t *testing.T) {
	tokenString, err := Generate("secret", 42, "ada", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := Parse("secret", tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, _, err := Parse("secret", "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
