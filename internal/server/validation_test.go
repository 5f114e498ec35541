package server

import "testing"

func TestValidateUsername(t *testing.T) {
	if _, err := validateUsername("ada_lovelace-1815"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := validateUsername(""); err == nil {
		t.Fatalf("empty username must fail")
	}
	if _, err := validateUsername("bad name!"); err == nil {
		t.Fatalf("unsupported characters must fail")
	}
	got, err := validateUsername("  ada  ")
	if err != nil || got != "ada" {
		t.Fatalf("expected trimmed ada, got %q (%v)", got, err)
	}
}

func TestValidateAnswer(t *testing.T) {
	got, err := validateAnswer("  soup   is  good ")
	if err != nil || got != "soup is good" {
		t.Fatalf("expected collapsed whitespace, got %q (%v)", got, err)
	}
	if _, err := validateAnswer("   "); err == nil {
		t.Fatalf("blank answer must fail")
	}
	long := make([]byte, maxAnswerLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := validateAnswer(string(long)); err == nil {
		t.Fatalf("oversized answer must fail")
	}
}

func TestValidateMaxRound(t *testing.T) {
	got, err := validateMaxRound(0, 3)
	if err != nil || got != 3 {
		t.Fatalf("zero must fall back to default, got %d (%v)", got, err)
	}
	if _, err := validateMaxRound(maxRoundsPerRoom+1, 3); err == nil {
		t.Fatalf("oversized rounds must fail")
	}
	if _, err := validateMaxRound(-1, 3); err == nil {
		t.Fatalf("negative rounds must fail")
	}
}

func TestNewRoomPassword(t *testing.T) {
	password := newRoomPassword(6)
	if len(password) != 6 {
		t.Fatalf("expected 6 characters, got %q", password)
	}
	for _, r := range password {
		if r >= 'A' && r <= 'Z' || r >= '2' && r <= '9' {
			continue
		}
		t.Fatalf("unexpected character %q in password", r)
	}
}
