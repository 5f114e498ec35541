package server

import "time"

const (
	phasePending   = "pending"
	phaseAnswering = "answering"
	phaseVoting    = "voting"
	phaseScoring   = "scoring"
	phaseFinished  = "finished"
)

const (
	taskPending   = "pending"
	taskCompleted = "completed"
	taskFinished  = "finished"
)

// Every player answers this many questions per round.
const questionsPerRound = 2

type RoomSummary struct {
	Name         string
	CurrentRound int
	MaxRound     int
	Phase        string
	Private      bool
	Players      int
	Live         int
}

type Room struct {
	Name            string
	DBID            uint
	CurrentRound    int
	MaxRound        int
	Phase           string
	Paused          bool
	Private         bool
	Password        string
	CreatedAt       time.Time
	RoundStartedAt  time.Time
	RoundFinishedAt time.Time
	UsedTasks       map[uint]struct{}
	Players         []Player
	Assignments     []Assignment
	NextPlayerID    int
	NextAssignID    int
}

type Player struct {
	ID      int
	DBID    uint
	UserID  uint
	Name    string
	IsHost  bool
	Score   int
	Live    bool
	Address string
	Color   string
}

// Assignment is one player's obligation to answer one task in one round,
// plus the likes that answer later collects.
type Assignment struct {
	ID         int
	DBID       uint
	Round      int
	PlayerID   int
	TaskID     uint
	Question   string
	Answer     string
	Status     string
	ScopeCost  int
	LikedBy    map[int]struct{}
	CreatedAt  time.Time
	AnsweredAt time.Time
	FinishedAt time.Time
}

// TaskCard is one catalog entry drawn for assignment.
type TaskCard struct {
	ID   uint
	Text string
}

type PlayerScore struct {
	PlayerID int
	Username string
	Score    int
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
