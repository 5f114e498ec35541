package server

import (
	"net/http"

	"friend-bucket/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	store  *Store
	db     *gorm.DB
	ws     *wsHub
	cfg    config.Config
	timers *phaseTimers
	users  *memoryUsers
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store:  NewStore(),
		db:     conn,
		ws:     newWSHub(),
		cfg:    cfg,
		timers: newPhaseTimers(),
		users:  newMemoryUsers(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("POST /api/signup", s.handleSignup)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("POST /api/rooms/connect", s.handleConnectRoom)
	mux.HandleFunc("GET /api/rooms/{name}", s.handleGetRoom)
	mux.HandleFunc("GET /ws/rooms/{name}", s.handleRoomSocket)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
