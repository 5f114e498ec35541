package server

import (
	"log"
	"math/rand/v2"
)

// assignRound creates the round's two assignments per live player. The
// first task list is a uniform draw from the unused pool; the second is
// the same list rotated by one, so nobody answers the same task twice and
// the two answers to every task come from different players. The player
// order is shuffled independently of the task order. Caller holds the
// room lock.
func (s *Server) assignRound(room *Room) error {
	live := livePlayers(room)
	n := len(live)
	if n < 2 {
		return ErrNotEnoughPlayers
	}

	drawn, err := s.drawTasks(room, n)
	if err != nil {
		return err
	}
	repetitive := make([]TaskCard, n)
	for i := range drawn {
		repetitive[i] = drawn[(i+1)%n]
	}
	rand.Shuffle(n, func(i, j int) {
		live[i], live[j] = live[j], live[i]
	})

	cost := room.CurrentRound * (n - 1) * s.cfg.ScopeOrder
	for i, player := range live {
		appendAssignment(room, player.ID, drawn[i], cost)
		appendAssignment(room, player.ID, repetitive[i], cost)
		room.UsedTasks[drawn[i].ID] = struct{}{}
	}
	log.Printf("round assigned room=%s round=%d players=%d cost=%d", room.Name, room.CurrentRound, n, cost)
	return nil
}

func appendAssignment(room *Room, playerID int, card TaskCard, cost int) *Assignment {
	assignment := Assignment{
		ID:        room.NextAssignID,
		Round:     room.CurrentRound,
		PlayerID:  playerID,
		TaskID:    card.ID,
		Question:  card.Text,
		Status:    taskPending,
		ScopeCost: cost,
		LikedBy:   make(map[int]struct{}),
		CreatedAt: timeNowUTC(),
	}
	room.NextAssignID++
	room.Assignments = append(room.Assignments, assignment)
	return &room.Assignments[len(room.Assignments)-1]
}

// openAssignments returns a player's pending assignments for the current
// round, which is what questionList events carry.
func openAssignments(room *Room, playerID int) []*Assignment {
	open := make([]*Assignment, 0, questionsPerRound)
	for i := range room.Assignments {
		assignment := &room.Assignments[i]
		if assignment.Round == room.CurrentRound &&
			assignment.PlayerID == playerID &&
			assignment.Status == taskPending {
			open = append(open, assignment)
		}
	}
	return open
}

func assignmentByVoteID(room *Room, voteID int) *Assignment {
	for i := range room.Assignments {
		if room.Assignments[i].ID == voteID {
			return &room.Assignments[i]
		}
	}
	return nil
}

func pendingAssignmentForTask(room *Room, playerID int, taskID uint) *Assignment {
	for i := range room.Assignments {
		assignment := &room.Assignments[i]
		if assignment.Round == room.CurrentRound &&
			assignment.PlayerID == playerID &&
			assignment.TaskID == taskID &&
			assignment.Status == taskPending {
			return assignment
		}
	}
	return nil
}

// roundBallot is every completed, unscored answer of the current round.
func roundBallot(room *Room) []*Assignment {
	ballot := make([]*Assignment, 0)
	for i := range room.Assignments {
		assignment := &room.Assignments[i]
		if assignment.Round == room.CurrentRound && assignment.Status == taskCompleted {
			ballot = append(ballot, assignment)
		}
	}
	return ballot
}
