package server

import (
	"log"
	"sort"
)

// Vote and score aggregation. Callers hold the room lock.

// answersComplete reports whether no live player still has a pending
// assignment in the current round. Checked after every answer submission
// and after disconnects; the deadline timer is the fallback.
func answersComplete(room *Room) bool {
	for i := range room.Players {
		player := &room.Players[i]
		if !player.Live {
			continue
		}
		for j := range room.Assignments {
			assignment := &room.Assignments[j]
			if assignment.Round == room.CurrentRound &&
				assignment.PlayerID == player.ID &&
				assignment.Status == taskPending {
				return false
			}
		}
	}
	return true
}

// votesComplete reports whether every live player has cast the expected
// number of likes for the round.
func votesComplete(room *Room) bool {
	return roundLikeCount(room) >= liveCount(room)*questionsPerRound
}

func roundLikeCount(room *Room) int {
	total := 0
	for i := range room.Assignments {
		assignment := &room.Assignments[i]
		if assignment.Round == room.CurrentRound {
			total += len(assignment.LikedBy)
		}
	}
	return total
}

// recordLike registers one like on an assignment. Self votes and repeat
// votes are rejected without touching the tally.
func recordLike(room *Room, voterID int, voteID int) (*Assignment, error) {
	assignment := assignmentByVoteID(room, voteID)
	if assignment == nil || assignment.Round != room.CurrentRound || assignment.Status != taskCompleted {
		return nil, ErrNotAssigned
	}
	if assignment.PlayerID == voterID {
		return nil, ErrSelfVote
	}
	if _, voted := assignment.LikedBy[voterID]; voted {
		return nil, ErrAlreadyVoted
	}
	assignment.LikedBy[voterID] = struct{}{}
	return assignment, nil
}

// resolveRoundScores picks the winning answer for every task answered in
// the round and credits its player with the assignment's scope cost. Ties
// on like count resolve to the lowest assignment id, so repeated runs
// always agree. Runs inside the same locked update that left the voting
// phase, so the like tally is a consistent snapshot.
func resolveRoundScores(room *Room) []*Assignment {
	byTask := make(map[uint][]*Assignment)
	for i := range room.Assignments {
		assignment := &room.Assignments[i]
		if assignment.Round == room.CurrentRound && assignment.Status == taskCompleted {
			byTask[assignment.TaskID] = append(byTask[assignment.TaskID], assignment)
		}
	}

	taskIDs := make([]uint, 0, len(byTask))
	for taskID := range byTask {
		taskIDs = append(taskIDs, taskID)
	}
	sort.Slice(taskIDs, func(i, j int) bool { return taskIDs[i] < taskIDs[j] })

	now := timeNowUTC()
	finished := make([]*Assignment, 0)
	for _, taskID := range taskIDs {
		candidates := byTask[taskID]
		var best *Assignment
		for _, candidate := range candidates {
			if best == nil ||
				len(candidate.LikedBy) > len(best.LikedBy) ||
				(len(candidate.LikedBy) == len(best.LikedBy) && candidate.ID < best.ID) {
				best = candidate
			}
		}
		if winner := playerByID(room, best.PlayerID); winner != nil {
			winner.Score += best.ScopeCost
			log.Printf("task scored room=%s round=%d task=%d winner=%s likes=%d cost=%d",
				room.Name, room.CurrentRound, taskID, winner.Name, len(best.LikedBy), best.ScopeCost)
		}
		for _, candidate := range candidates {
			candidate.Status = taskFinished
			candidate.FinishedAt = now
			finished = append(finished, candidate)
		}
	}
	return finished
}
