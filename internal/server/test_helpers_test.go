package server

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func signupPlayer(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	tokenString, ok := body["token"].(string)
	if !ok || tokenString == "" {
		t.Fatalf("expected token, got %#v", body["token"])
	}
	return tokenString
}

func createRoomAPI(t *testing.T, ts *httptest.Server, token, name string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms", token, map[string]any{
		"name": name,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

// newEngineRoom sets up a room with the given players already connected,
// first name as host. It bypasses the websocket layer so engine tests can
// drive transitions directly.
func newEngineRoom(t *testing.T, srv *Server, roomName string, maxRound int, names ...string) *Room {
	t.Helper()
	if _, err := srv.store.CreateRoom(roomName, maxRound, false, ""); err != nil {
		t.Fatalf("create room: %v", err)
	}
	room, err := srv.store.UpdateRoom(roomName, func(room *Room) error {
		for i, name := range names {
			player, err := addPlayer(room, uint(i+1), name, i == 0)
			if err != nil {
				return err
			}
			markConnected(player, "addr-"+name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed players: %v", err)
	}
	return room
}

// startEngineRound runs the pending -> answering transition under the
// room lock and fails the test if it is refused.
func startEngineRound(t *testing.T, srv *Server, roomName string) *Room {
	t.Helper()
	room, err := srv.store.UpdateRoom(roomName, func(room *Room) error {
		return srv.beginRound(room, &outbox{roomName: roomName})
	})
	if err != nil {
		t.Fatalf("begin round: %v", err)
	}
	return room
}

// answerAllOpen completes every pending assignment of the current round
// with a canned answer and runs the completion check.
func answerAllOpen(t *testing.T, srv *Server, roomName string) *Room {
	t.Helper()
	room, err := srv.store.UpdateRoom(roomName, func(room *Room) error {
		for i := range room.Assignments {
			assignment := &room.Assignments[i]
			if assignment.Round == room.CurrentRound && assignment.Status == taskPending {
				assignment.Answer = "answer " + assignment.Question
				assignment.Status = taskCompleted
				assignment.AnsweredAt = timeNowUTC()
			}
		}
		if answersComplete(room) {
			finishAnswering(room, &outbox{roomName: roomName})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("answer round: %v", err)
	}
	return room
}

// castAllVotes makes every live player like every ballot entry they are
// allowed to, then runs the completion check.
func castAllVotes(t *testing.T, srv *Server, roomName string) *Room {
	t.Helper()
	room, err := srv.store.UpdateRoom(roomName, func(room *Room) error {
		for i := range room.Players {
			player := &room.Players[i]
			if !player.Live {
				continue
			}
			cast := 0
			for _, entry := range roundBallot(room) {
				if cast == questionsPerRound {
					break
				}
				if _, err := recordLike(room, player.ID, entry.ID); err == nil {
					cast++
				}
			}
		}
		if votesComplete(room) {
			srv.finishVoting(room, &outbox{roomName: roomName})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("cast votes: %v", err)
	}
	return room
}
