package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxUsernameLength = 150
	maxRoomNameLength = 150
	maxAnswerLength   = 500
	maxRoundsPerRoom  = 10
)

func validateUsername(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("username is required")
	}
	if len(trimmed) > maxUsernameLength {
		return "", fmt.Errorf("username must be %d characters or fewer", maxUsernameLength)
	}
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			continue
		}
		if r == '-' || r == '_' || r == '.' {
			continue
		}
		return "", errors.New("username contains unsupported characters")
	}
	return trimmed, nil
}

func validateRoomName(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("room name is required")
	}
	if len(trimmed) > maxRoomNameLength {
		return "", fmt.Errorf("room name must be %d characters or fewer", maxRoomNameLength)
	}
	return trimmed, nil
}

func validateAnswer(text string) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", errors.New("answer is required")
	}
	if len(trimmed) > maxAnswerLength {
		return "", fmt.Errorf("answer must be %d characters or fewer", maxAnswerLength)
	}
	return trimmed, nil
}

func validateMaxRound(rounds, fallback int) (int, error) {
	if rounds == 0 {
		return fallback, nil
	}
	if rounds < 1 || rounds > maxRoundsPerRoom {
		return 0, fmt.Errorf("rounds must be between 1 and %d", maxRoundsPerRoom)
	}
	return rounds, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
