package server

import (
	"errors"
	"testing"
)

func TestCreateRoomRejectsDuplicateName(t *testing.T) {
	store := NewStore()
	if _, err := store.CreateRoom("den", 3, false, ""); err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := store.CreateRoom("den", 3, false, ""); !errors.Is(err, ErrRoomExists) {
		t.Fatalf("expected ErrRoomExists, got %v", err)
	}
}

func TestUpdateRoomUnknownName(t *testing.T) {
	store := NewStore()
	_, err := store.UpdateRoom("ghost", func(room *Room) error { return nil })
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestUpdateRoomErrorDoesNotReturnRoom(t *testing.T) {
	store := NewStore()
	if _, err := store.CreateRoom("den", 3, false, ""); err != nil {
		t.Fatalf("create room: %v", err)
	}
	boom := errors.New("boom")
	room, err := store.UpdateRoom("den", func(room *Room) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected closure error, got %v", err)
	}
	if room != nil {
		t.Fatalf("expected nil room on error, got %#v", room)
	}
}

func TestListRoomSummariesSorted(t *testing.T) {
	store := NewStore()
	for _, name := range []string{"zebra", "apple", "mango"} {
		if _, err := store.CreateRoom(name, 3, false, ""); err != nil {
			t.Fatalf("create room %s: %v", name, err)
		}
	}
	list := store.ListRoomSummaries()
	if len(list) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(list))
	}
	for i, want := range []string{"apple", "mango", "zebra"} {
		if list[i].Name != want {
			t.Fatalf("expected %s at %d, got %s", want, i, list[i].Name)
		}
	}
}

func TestRemoveRoom(t *testing.T) {
	store := NewStore()
	if _, err := store.CreateRoom("den", 3, false, ""); err != nil {
		t.Fatalf("create room: %v", err)
	}
	store.RemoveRoom("den")
	if _, ok := store.GetRoom("den"); ok {
		t.Fatalf("room should be gone")
	}
}

func TestAddPlayerReclaimsAccount(t *testing.T) {
	store := NewStore()
	room, err := store.CreateRoom("den", 3, false, "")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	first, err := addPlayer(room, 7, "Ada", true)
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	again, err := addPlayer(room, 7, "Ada", false)
	if err != nil {
		t.Fatalf("re-add player: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("same account must reclaim the same player, got %d and %d", first.ID, again.ID)
	}
	if !again.IsHost {
		t.Fatalf("reclaiming must not demote the host")
	}

	if _, err := addPlayer(room, 8, "Ada", false); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestPlayerColorsUnique(t *testing.T) {
	store := NewStore()
	room, err := store.CreateRoom("rainbow", 3, false, "")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	seen := make(map[string]struct{})
	for i := 0; i < len(playerPalette); i++ {
		player, err := addPlayer(room, uint(i+1), "player-"+string(rune('a'+i)), false)
		if err != nil {
			t.Fatalf("add player: %v", err)
		}
		if _, dup := seen[player.Color]; dup {
			t.Fatalf("color %s assigned twice", player.Color)
		}
		seen[player.Color] = struct{}{}
	}
}
