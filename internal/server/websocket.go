package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// wsHub is the broadcast gateway: it can target one connection by its
// address or fan out to every connection in a room. The engine never
// holds a reference to a socket.
type wsHub struct {
	mu    sync.Mutex
	conns map[string]*websocket.Conn
	rooms map[string]map[string]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		conns: make(map[string]*websocket.Conn),
		rooms: make(map[string]map[string]struct{}),
	}
}

func (h *wsHub) Add(roomName, address string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[address] = conn
	group := h.rooms[roomName]
	if group == nil {
		group = make(map[string]struct{})
		h.rooms[roomName] = group
	}
	group[address] = struct{}{}
}

func (h *wsHub) Remove(roomName, address string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.conns[address]; ok {
		_ = conn.Close()
		delete(h.conns, address)
	}
	if group, ok := h.rooms[roomName]; ok {
		delete(group, address)
		if len(group) == 0 {
			delete(h.rooms, roomName)
		}
	}
}

func (h *wsHub) SendToPlayer(address string, payload map[string]any) {
	h.mu.Lock()
	conn := h.conns[address]
	h.mu.Unlock()
	if conn == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) SendToRoom(roomName string, payload map[string]any) {
	h.mu.Lock()
	group := h.rooms[roomName]
	conns := make(map[string]*websocket.Conn, len(group))
	for address := range group {
		if conn, ok := h.conns[address]; ok {
			conns[address] = conn
		}
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for address, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(roomName, address)
		}
	}
}

// outbox collects the events a room update produced so they get sent
// after the room lock is released; broadcast never blocks a transition.
type outbox struct {
	roomName string
	events   []targetedEvent
}

type targetedEvent struct {
	address string
	payload map[string]any
}

func (o *outbox) toPlayer(address string, payload map[string]any) {
	if address == "" {
		return
	}
	o.events = append(o.events, targetedEvent{address: address, payload: payload})
}

func (o *outbox) toRoom(payload map[string]any) {
	o.events = append(o.events, targetedEvent{payload: payload})
}

func (s *Server) flush(out *outbox) {
	for _, event := range out.events {
		if event.address == "" {
			s.ws.SendToRoom(out.roomName, event.payload)
			continue
		}
		s.ws.SendToPlayer(event.address, event.payload)
	}
}

func (s *Server) handleRoomSocket(w http.ResponseWriter, r *http.Request) {
	roomName := r.PathValue("name")
	if _, exists := s.store.GetRoom(roomName); !exists {
		http.NotFound(w, r)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	address := uuid.NewString()
	s.ws.Add(roomName, address, conn)
	log.Printf("ws connected room=%s address=%s remote=%s", roomName, address, r.RemoteAddr)
	go s.readRoomSocket(roomName, address, conn)
}

func (s *Server) readRoomSocket(roomName, address string, conn *websocket.Conn) {
	defer s.handleDisconnect(roomName, address)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("ws disconnected room=%s address=%s error=%v", roomName, address, err)
			return
		}
		event, err := decodeInbound(data)
		if err != nil {
			s.ws.SendToPlayer(address, errorEvent(err.Error()))
			continue
		}
		s.dispatchEvent(roomName, address, event)
	}
}

// dispatchEvent routes one decoded inbound event to the state machine.
func (s *Server) dispatchEvent(roomName, address string, event any) {
	switch typed := event.(type) {
	case *greetingEvent:
		s.handleGreeting(roomName, address, typed)
	case *startEvent:
		s.handleStart(roomName, address)
	case *answerEvent:
		s.handleAnswerEvent(roomName, address, typed)
	case *voteListEvent:
		s.handleVoteListEvent(roomName, address, typed)
	case *isAliveEvent:
		s.ws.SendToPlayer(address, isAliveReply())
	default:
		s.ws.SendToPlayer(address, errorEvent("unknown event type"))
	}
}
