package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	eventConnection     = "connection"
	eventDefine         = "define"
	eventGreeting       = "greeting"
	eventQuestionList   = "questionList"
	eventError          = "error"
	eventAnswerAccepted = "answerAccepted"
	eventVoteList       = "voteList"
	eventScore          = "score"
	eventWinner         = "winner"
	eventPause          = "pause"
	eventResume         = "resume"
	eventIsAlive        = "isAlive"
	eventStart          = "start"
	eventAnswer         = "answer"
)

// Inbound events, decoded once at the boundary into a typed variant.

type greetingEvent struct {
	Token string `json:"token"`
}

type startEvent struct{}

type answerEntry struct {
	QuestionID uint   `json:"questionId"`
	Answer     string `json:"answer"`
}

type answerEvent struct {
	Answers []answerEntry `json:"answer"`
}

type voteEntry struct {
	QuestionID uint `json:"questionId"`
	VoteID     int  `json:"voteId"`
}

type voteListEvent struct {
	Votes []voteEntry `json:"votes"`
}

type isAliveEvent struct{}

type inboundEnvelope struct {
	EventType string `json:"eventType"`
}

// decodeInbound parses a raw websocket message into one of the inbound
// event variants. Unknown or malformed events are rejected, never
// silently dropped.
func decodeInbound(data []byte) (any, error) {
	var envelope inboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.New("malformed event")
	}
	switch envelope.EventType {
	case eventGreeting:
		var event greetingEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, errors.New("malformed greeting event")
		}
		if event.Token == "" {
			return nil, errors.New("greeting requires a token")
		}
		return &event, nil
	case eventStart:
		return &startEvent{}, nil
	case eventAnswer:
		var event answerEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, errors.New("malformed answer event")
		}
		if len(event.Answers) == 0 || len(event.Answers) > questionsPerRound {
			return nil, fmt.Errorf("answer requires between 1 and %d entries", questionsPerRound)
		}
		return &event, nil
	case eventVoteList:
		var event voteListEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, errors.New("malformed voteList event")
		}
		if len(event.Votes) == 0 || len(event.Votes) > questionsPerRound {
			return nil, fmt.Errorf("voteList requires between 1 and %d entries", questionsPerRound)
		}
		return &event, nil
	case eventIsAlive:
		return &isAliveEvent{}, nil
	case "":
		return nil, errors.New("eventType is required")
	default:
		return nil, fmt.Errorf("unknown event type %q", envelope.EventType)
	}
}

// Outbound events all share the {eventType, timestamp, ...} envelope.

func newOutbound(eventType string) map[string]any {
	return map[string]any{
		"eventType": eventType,
		"timestamp": time.Now().UTC().Unix(),
	}
}

func errorEvent(message string) map[string]any {
	event := newOutbound(eventError)
	event["message"] = message
	return event
}

func connectionEvent(username, status string) map[string]any {
	event := newOutbound(eventConnection)
	event["username"] = username
	event["status"] = status
	return event
}

func defineEvent(room *Room, player *Player) map[string]any {
	event := newOutbound(eventDefine)
	event["room"] = map[string]any{
		"name":         room.Name,
		"currentRound": room.CurrentRound,
		"maxRound":     room.MaxRound,
		"phase":        room.Phase,
		"paused":       room.Paused,
	}
	event["color"] = player.Color
	event["host"] = player.IsHost
	return event
}

func greetingRosterEvent(room *Room) map[string]any {
	players := make([]map[string]any, 0, len(room.Players))
	for i := range room.Players {
		player := &room.Players[i]
		players = append(players, map[string]any{
			"userId":   player.ID,
			"username": player.Name,
			"host":     player.IsHost,
			"score":    player.Score,
			"color":    player.Color,
			"live":     player.Live,
		})
	}
	event := newOutbound(eventGreeting)
	event["users"] = players
	return event
}

func questionListEvent(assignments []*Assignment) map[string]any {
	questions := make([]map[string]any, 0, len(assignments))
	for _, assignment := range assignments {
		questions = append(questions, map[string]any{
			"questionId": assignment.TaskID,
			"text":       assignment.Question,
		})
	}
	event := newOutbound(eventQuestionList)
	event["questions"] = questions
	return event
}

func answerAcceptedEvent(questionID uint) map[string]any {
	event := newOutbound(eventAnswerAccepted)
	event["questionId"] = questionID
	return event
}

// voteListBallotEvent carries every completed answer of the round,
// attributed only by assignment id.
func voteListBallotEvent(assignments []*Assignment) map[string]any {
	answers := make([]map[string]any, 0, len(assignments))
	for _, assignment := range assignments {
		answers = append(answers, map[string]any{
			"voteId":     assignment.ID,
			"questionId": assignment.TaskID,
			"question":   assignment.Question,
			"answer":     assignment.Answer,
		})
	}
	event := newOutbound(eventVoteList)
	event["answers"] = answers
	return event
}

func scoreEvent(scores []PlayerScore) map[string]any {
	list := make([]map[string]any, 0, len(scores))
	for _, score := range scores {
		list = append(list, map[string]any{
			"username": score.Username,
			"score":    score.Score,
		})
	}
	event := newOutbound(eventScore)
	event["scores"] = list
	return event
}

func winnerEvent(player *Player) map[string]any {
	event := newOutbound(eventWinner)
	if player != nil {
		event["username"] = player.Name
		event["score"] = player.Score
	}
	return event
}

func pauseEvent() map[string]any {
	return newOutbound(eventPause)
}

func resumeEvent() map[string]any {
	return newOutbound(eventResume)
}

func isAliveReply() map[string]any {
	return newOutbound(eventIsAlive)
}
