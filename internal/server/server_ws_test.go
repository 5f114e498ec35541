package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"friend-bucket/internal/config"

	"github.com/gorilla/websocket"
)

func dialRoom(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, payload map[string]any) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write event: %v", err)
	}
}

// readEventType reads messages until one of the wanted types shows up.
// Broadcasts like connection events arrive interleaved, so tests state
// which events they care about.
func readEventType(t *testing.T, conn *websocket.Conn, wanted ...string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read event: %v", err)
		}
		var event map[string]any
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		eventType, _ := event["eventType"].(string)
		for _, want := range wanted {
			if eventType == want {
				return event
			}
		}
	}
	t.Fatalf("no %v event within deadline", wanted)
	return nil
}

func TestWebsocketRequiresExistingRoom(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/missing"
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Fatalf("expected dial to an unknown room to fail")
	}
}

func TestWebsocketGreeting(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	token := signupPlayer(t, ts, "ada")
	createRoomAPI(t, ts, token, "lobby")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/lobby"
	conn := dialRoom(t, wsURL)

	sendEvent(t, conn, map[string]any{"eventType": "greeting", "token": token})
	define := readEventType(t, conn, eventDefine)
	if define["host"] != true {
		t.Fatalf("room creator must greet as host, got %#v", define["host"])
	}
	roster := readEventType(t, conn, eventGreeting)
	users, ok := roster["users"].([]any)
	if !ok || len(users) != 1 {
		t.Fatalf("expected 1 player in roster, got %#v", roster["users"])
	}
}

func TestWebsocketRejectsBadEvents(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	token := signupPlayer(t, ts, "ada")
	createRoomAPI(t, ts, token, "strict-room")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/strict-room"
	conn := dialRoom(t, wsURL)

	sendEvent(t, conn, map[string]any{"eventType": "dance"})
	readEventType(t, conn, eventError)

	sendEvent(t, conn, map[string]any{"eventType": "greeting"})
	readEventType(t, conn, eventError)

	sendEvent(t, conn, map[string]any{"eventType": "greeting", "token": "not-a-token"})
	readEventType(t, conn, eventError)
}

func TestWebsocketIsAlive(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	token := signupPlayer(t, ts, "ada")
	createRoomAPI(t, ts, token, "ping")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/ping"
	conn := dialRoom(t, wsURL)

	sendEvent(t, conn, map[string]any{"eventType": "isAlive"})
	readEventType(t, conn, eventIsAlive)
}

func TestWebsocketRoundTrip(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	hostToken := signupPlayer(t, ts, "ada")
	guestToken := signupPlayer(t, ts, "ben")
	createRoomAPI(t, ts, hostToken, "full-loop")
	doRequest(t, ts, http.MethodPost, "/api/rooms/connect", guestToken, map[string]string{"name": "full-loop"})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/full-loop"
	host := dialRoom(t, wsURL)
	guest := dialRoom(t, wsURL)

	sendEvent(t, host, map[string]any{"eventType": "greeting", "token": hostToken})
	readEventType(t, host, eventDefine)
	sendEvent(t, guest, map[string]any{"eventType": "greeting", "token": guestToken})
	readEventType(t, guest, eventDefine)

	// Only the host may start.
	sendEvent(t, guest, map[string]any{"eventType": "start"})
	readEventType(t, guest, eventError)

	sendEvent(t, host, map[string]any{"eventType": "start"})
	hostQuestions := readEventType(t, host, eventQuestionList)
	guestQuestions := readEventType(t, guest, eventQuestionList)

	answerQuestions := func(conn *websocket.Conn, event map[string]any) {
		questions, ok := event["questions"].([]any)
		if !ok || len(questions) != questionsPerRound {
			t.Fatalf("expected %d questions, got %#v", questionsPerRound, event["questions"])
		}
		answers := make([]map[string]any, 0, len(questions))
		for _, raw := range questions {
			question := raw.(map[string]any)
			answers = append(answers, map[string]any{
				"questionId": question["questionId"],
				"answer":     "an answer",
			})
		}
		sendEvent(t, conn, map[string]any{"eventType": "answer", "answer": answers})
		readEventType(t, conn, eventAnswerAccepted)
	}
	answerQuestions(host, hostQuestions)
	answerQuestions(guest, guestQuestions)

	hostBallot := readEventType(t, host, eventVoteList)
	if answers, ok := hostBallot["answers"].([]any); !ok || len(answers) != 2*questionsPerRound {
		t.Fatalf("expected full ballot, got %#v", hostBallot["answers"])
	}
	readEventType(t, guest, eventVoteList)

	// Each player likes the two answers that are not their own; with two
	// players that is exactly the other player's half of the ballot.
	voteFor := func(conn *websocket.Conn, token string) {
		identity, err := srv.resolveIdentity(token)
		if err != nil {
			t.Fatalf("resolve identity: %v", err)
		}
		votes := make([]map[string]any, 0, questionsPerRound)
		_, err = srv.store.UpdateRoom("full-loop", func(room *Room) error {
			player := playerByUserID(room, identity.UserID)
			for _, entry := range roundBallot(room) {
				if entry.PlayerID == player.ID || len(votes) == questionsPerRound {
					continue
				}
				votes = append(votes, map[string]any{
					"questionId": entry.TaskID,
					"voteId":     entry.ID,
				})
			}
			return nil
		})
		if err != nil {
			t.Fatalf("collect ballot: %v", err)
		}
		sendEvent(t, conn, map[string]any{"eventType": "voteList", "votes": votes})
	}
	voteFor(host, hostToken)
	voteFor(guest, guestToken)

	score := readEventType(t, host, eventScore)
	if _, ok := score["scores"].([]any); !ok {
		t.Fatalf("expected scores list, got %#v", score["scores"])
	}
	// Default rooms run three rounds, so scoring flows into round two.
	readEventType(t, host, eventQuestionList)
}
