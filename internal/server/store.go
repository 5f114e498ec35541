package server

import (
	"sort"
	"sync"
)

// Store holds every active room. Each room carries its own lock so that
// all mutations of one room are serialized while distinct rooms never
// contend with each other.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*roomSlot
}

type roomSlot struct {
	mu   sync.Mutex
	room *Room
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*roomSlot),
	}
}

func (s *Store) CreateRoom(name string, maxRound int, private bool, password string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[name]; ok {
		return nil, ErrRoomExists
	}
	room := &Room{
		Name:         name,
		CurrentRound: 1,
		MaxRound:     maxRound,
		Phase:        phasePending,
		Private:      private,
		Password:     password,
		CreatedAt:    timeNowUTC(),
		UsedTasks:    make(map[uint]struct{}),
		NextPlayerID: 1,
		NextAssignID: 1,
	}
	s.rooms[name] = &roomSlot{room: room}
	return room, nil
}

// UpdateRoom runs fn with the room's lock held. Everything the engine
// does to a room happens inside one of these closures; transition checks
// are therefore atomic with the mutation that triggered them.
func (s *Store) UpdateRoom(name string, fn func(room *Room) error) (*Room, error) {
	s.mu.RLock()
	slot, ok := s.rooms[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if err := fn(slot.room); err != nil {
		return nil, err
	}
	return slot.room, nil
}

func (s *Store) GetRoom(name string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.rooms[name]
	if !ok {
		return nil, false
	}
	return slot.room, true
}

func (s *Store) RemoveRoom(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, name)
}

func (s *Store) ListRoomSummaries() []RoomSummary {
	s.mu.RLock()
	slots := make([]*roomSlot, 0, len(s.rooms))
	for _, slot := range s.rooms {
		slots = append(slots, slot)
	}
	s.mu.RUnlock()

	list := make([]RoomSummary, 0, len(slots))
	for _, slot := range slots {
		slot.mu.Lock()
		room := slot.room
		list = append(list, RoomSummary{
			Name:         room.Name,
			CurrentRound: room.CurrentRound,
			MaxRound:     room.MaxRound,
			Phase:        room.Phase,
			Private:      room.Private,
			Players:      len(room.Players),
			Live:         liveCount(room),
		})
		slot.mu.Unlock()
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
