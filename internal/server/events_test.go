package server

import "testing"

func TestDecodeInboundVariants(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"greeting", `{"eventType":"greeting","token":"abc"}`, false},
		{"greeting missing token", `{"eventType":"greeting"}`, true},
		{"start", `{"eventType":"start"}`, false},
		{"answer", `{"eventType":"answer","answer":[{"questionId":1,"answer":"hi"}]}`, false},
		{"answer empty", `{"eventType":"answer","answer":[]}`, true},
		{"answer overfull", `{"eventType":"answer","answer":[{"questionId":1,"answer":"a"},{"questionId":2,"answer":"b"},{"questionId":3,"answer":"c"}]}`, true},
		{"voteList", `{"eventType":"voteList","votes":[{"questionId":1,"voteId":2}]}`, false},
		{"voteList empty", `{"eventType":"voteList","votes":[]}`, true},
		{"isAlive", `{"eventType":"isAlive"}`, false},
		{"unknown type", `{"eventType":"dance"}`, true},
		{"missing type", `{"token":"abc"}`, true},
		{"not json", `definitely not json`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeInbound([]byte(tc.payload))
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %s", tc.payload)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecodeInboundTypes(t *testing.T) {
	event, err := decodeInbound([]byte(`{"eventType":"answer","answer":[{"questionId":4,"answer":"soup"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	answer, ok := event.(*answerEvent)
	if !ok {
		t.Fatalf("expected *answerEvent, got %T", event)
	}
	if answer.Answers[0].QuestionID != 4 || answer.Answers[0].Answer != "soup" {
		t.Fatalf("unexpected payload: %#v", answer.Answers[0])
	}
}

func TestOutboundEnvelope(t *testing.T) {
	event := errorEvent("nope")
	if event["eventType"] != eventError {
		t.Fatalf("expected eventType %s, got %#v", eventError, event["eventType"])
	}
	if event["message"] != "nope" {
		t.Fatalf("expected message, got %#v", event["message"])
	}
	if _, ok := event["timestamp"].(int64); !ok {
		t.Fatalf("expected unix timestamp, got %#v", event["timestamp"])
	}
}

func TestQuestionListEventShape(t *testing.T) {
	assignments := []*Assignment{
		{ID: 1, TaskID: 10, Question: "first"},
		{ID: 2, TaskID: 11, Question: "second"},
	}
	event := questionListEvent(assignments)
	questions, ok := event["questions"].([]map[string]any)
	if !ok || len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %#v", event["questions"])
	}
	if questions[0]["questionId"] != uint(10) || questions[0]["text"] != "first" {
		t.Fatalf("unexpected question payload: %#v", questions[0])
	}
}

func TestBallotHidesAuthors(t *testing.T) {
	assignments := []*Assignment{
		{ID: 3, PlayerID: 1, TaskID: 10, Question: "q", Answer: "a"},
	}
	event := voteListBallotEvent(assignments)
	answers, ok := event["answers"].([]map[string]any)
	if !ok || len(answers) != 1 {
		t.Fatalf("expected 1 answer, got %#v", event["answers"])
	}
	for key := range answers[0] {
		switch key {
		case "voteId", "questionId", "question", "answer":
		default:
			t.Fatalf("ballot leaks field %s", key)
		}
	}
}
