package server

import (
	"errors"
	"log"
	"net/http"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createRoomRequest struct {
	Name     string `json:"name"`
	MaxRound int    `json:"maxRound"`
	Private  bool   `json:"private"`
}

type connectRoomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	username, err := validateUsername(req.Username)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "email and a password of at least 8 characters are required")
		return
	}
	userID, err := s.signupUser(username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			writeError(w, http.StatusConflict, "username or email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}
	log.Printf("user signed up user=%s id=%d", username, userID)
	tokenString, err := s.loginUser(username, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"userId": userID,
		"token":  tokenString,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	tokenString, err := s.loginUser(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			writeError(w, http.StatusUnauthorized, ErrBadCredentials.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token": tokenString,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, err := s.identityFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":   identity.UserID,
		"username": identity.Username,
	})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	if _, err := s.identityFromRequest(r); err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	summaries := s.store.ListRoomSummaries()
	rooms := make([]map[string]any, 0, len(summaries))
	for _, summary := range summaries {
		rooms = append(rooms, roomSummaryPayload(summary))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": rooms,
	})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	identity, err := s.identityFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	name, err := validateRoomName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxRound, err := validateMaxRound(req.MaxRound, s.cfg.DefaultMaxRound)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	password := ""
	if req.Private {
		password = newRoomPassword(s.cfg.RoomPasswordLength)
	}
	room, err := s.store.CreateRoom(name, maxRound, req.Private, password)
	if err != nil {
		writeError(w, http.StatusConflict, ErrRoomExists.Error())
		return
	}
	var host *Player
	if _, err := s.store.UpdateRoom(name, func(room *Room) error {
		hostPlayer, err := addPlayer(room, identity.UserID, identity.Username, true)
		if err != nil {
			return err
		}
		host = hostPlayer
		return nil
	}); err != nil {
		s.store.RemoveRoom(name)
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	if err := s.persistRoom(room); err != nil {
		log.Printf("persist room failed room=%s error=%v", room.Name, err)
	}
	if err := s.persistPlayer(room, host); err != nil {
		log.Printf("persist player failed room=%s player=%s error=%v", room.Name, host.Name, err)
	}
	log.Printf("room created room=%s host=%s rounds=%d private=%t", room.Name, identity.Username, maxRound, req.Private)
	resp := map[string]any{
		"name":     room.Name,
		"maxRound": room.MaxRound,
		"socket":   "/ws/rooms/" + room.Name,
	}
	if password != "" {
		resp["password"] = password
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleConnectRoom(w http.ResponseWriter, r *http.Request) {
	identity, err := s.identityFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req connectRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	var joined *Player
	room, err := s.store.UpdateRoom(req.Name, func(room *Room) error {
		if room.Private && room.Password != req.Password {
			return ErrBadPassword
		}
		if existing := playerByUserID(room, identity.UserID); existing != nil {
			joined = existing
			return nil
		}
		if room.Phase != phasePending {
			return ErrRoomStarted
		}
		player, err := addPlayer(room, identity.UserID, identity.Username, false)
		if err != nil {
			return err
		}
		joined = player
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrBadPassword):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrRoomStarted), errors.Is(err, ErrDuplicateName):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to join room")
		}
		return
	}
	if err := s.persistPlayer(room, joined); err != nil {
		log.Printf("persist player failed room=%s player=%s error=%v", room.Name, joined.Name, err)
	}
	log.Printf("player joined room=%s player=%s", room.Name, identity.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   room.Name,
		"socket": "/ws/rooms/" + room.Name,
		"host":   joined.IsHost,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	if _, err := s.identityFromRequest(r); err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var summary RoomSummary
	if _, err := s.store.UpdateRoom(r.PathValue("name"), func(room *Room) error {
		summary = RoomSummary{
			Name:         room.Name,
			CurrentRound: room.CurrentRound,
			MaxRound:     room.MaxRound,
			Phase:        room.Phase,
			Private:      room.Private,
			Players:      len(room.Players),
			Live:         liveCount(room),
		}
		return nil
	}); err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, roomSummaryPayload(summary))
}

func roomSummaryPayload(summary RoomSummary) map[string]any {
	return map[string]any{
		"name":         summary.Name,
		"currentRound": summary.CurrentRound,
		"maxRound":     summary.MaxRound,
		"phase":        summary.Phase,
		"private":      summary.Private,
		"players":      summary.Players,
		"live":         summary.Live,
	}
}
