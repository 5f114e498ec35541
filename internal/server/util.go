package server

import "crypto/rand"

// newRoomPassword generates the shareable code for private rooms.
func newRoomPassword(length int) string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	if length <= 0 {
		length = 6
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		for i := range buf {
			buf[i] = 'A'
		}
		return string(buf)
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

var playerPalette = []string{
	"#ff6b6b",
	"#4dabf7",
	"#51cf66",
	"#ffa94d",
	"#ffd43b",
	"#845ef7",
	"#20c997",
	"#e64980",
}

// pickPlayerColor returns a palette color unused in the room, wrapping
// around once the palette is exhausted.
func pickPlayerColor(room *Room) string {
	used := make(map[string]struct{}, len(room.Players))
	for i := range room.Players {
		used[room.Players[i].Color] = struct{}{}
	}
	for _, color := range playerPalette {
		if _, taken := used[color]; !taken {
			return color
		}
	}
	return playerPalette[len(room.Players)%len(playerPalette)]
}
