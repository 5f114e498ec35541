package server

import "log"

// Round state machine. Rooms move
// pending -> answering -> voting -> scoring -> answering | finished.
// All transitions happen inside store.UpdateRoom closures, so a
// transition is attempted exactly once: two submissions can never both
// observe an incomplete round and both advance it.

func setPhase(room *Room, phase string) {
	room.Phase = phase
}

// beginRound runs the answering preconditions, assigns tasks and moves
// the room into answering. Each player is sent only their own two
// questions. Caller holds the room lock.
func (s *Server) beginRound(room *Room, out *outbox) error {
	live := livePlayers(room)
	if len(live) < s.cfg.MinPlayers {
		return ErrNotEnoughPlayers
	}
	remaining := room.MaxRound - room.CurrentRound + 1
	available, err := s.unusedTaskCount(room)
	if err != nil {
		return err
	}
	if available < len(live)*remaining {
		return ErrInsufficientTasks
	}
	if err := s.assignRound(room); err != nil {
		return err
	}
	setPhase(room, phaseAnswering)
	room.RoundStartedAt = timeNowUTC()
	for _, player := range live {
		out.toPlayer(player.Address, questionListEvent(openAssignments(room, player.ID)))
	}
	return nil
}

// finishAnswering broadcasts the anonymized ballot and opens voting.
func finishAnswering(room *Room, out *outbox) {
	setPhase(room, phaseVoting)
	out.toRoom(voteListBallotEvent(roundBallot(room)))
}

// finishVoting scores the round synchronously and either starts the next
// round or ends the game. Scoring happens under the same lock that left
// voting, so no late like can slip into the tally.
func (s *Server) finishVoting(room *Room, out *outbox) {
	setPhase(room, phaseScoring)
	resolveRoundScores(room)
	room.RoundFinishedAt = timeNowUTC()
	out.toRoom(scoreEvent(roomScores(room)))

	if room.CurrentRound >= room.MaxRound {
		finishRoom(room, out)
		return
	}
	room.CurrentRound++
	if err := s.beginRound(room, out); err != nil {
		log.Printf("room ending early room=%s round=%d reason=%v", room.Name, room.CurrentRound, err)
		finishRoom(room, out)
	}
}

func finishRoom(room *Room, out *outbox) {
	setPhase(room, phaseFinished)
	out.toRoom(winnerEvent(roomWinner(room)))
}

// handleStart processes the host's start event: pending -> answering.
func (s *Server) handleStart(roomName, address string) {
	out := &outbox{roomName: roomName}
	room, err := s.store.UpdateRoom(roomName, func(room *Room) error {
		player := playerByAddress(room, address)
		if player == nil {
			return ErrNotInRoom
		}
		if !player.IsHost {
			return ErrNotHost
		}
		if room.Paused {
			return ErrRoomPaused
		}
		if room.Phase != phasePending {
			return ErrRoomStarted
		}
		return s.beginRound(room, out)
	})
	if err != nil {
		s.ws.SendToPlayer(address, errorEvent(err.Error()))
		return
	}
	s.flush(out)
	log.Printf("room started room=%s round=%d", room.Name, room.CurrentRound)
	if err := s.persistRoundStart(room); err != nil {
		log.Printf("persist round start failed room=%s error=%v", room.Name, err)
	}
	s.syncPhaseTimer(room)
}

// handleAnswerEvent records a batch of answers. Invalid entries are
// rejected individually; valid entries in the same batch still land.
func (s *Server) handleAnswerEvent(roomName, address string, event *answerEvent) {
	out := &outbox{roomName: roomName}
	accepted := make([]int, 0, len(event.Answers))
	advanced := false
	room, err := s.store.UpdateRoom(roomName, func(room *Room) error {
		player := playerByAddress(room, address)
		if player == nil {
			return ErrNotInRoom
		}
		if room.Phase != phaseAnswering {
			return ErrWrongPhase
		}
		for _, entry := range event.Answers {
			text, err := validateAnswer(entry.Answer)
			if err != nil {
				out.toPlayer(address, errorEvent(err.Error()))
				continue
			}
			assignment := pendingAssignmentForTask(room, player.ID, entry.QuestionID)
			if assignment == nil {
				out.toPlayer(address, errorEvent(ErrNotAssigned.Error()))
				continue
			}
			assignment.Answer = text
			assignment.Status = taskCompleted
			assignment.AnsweredAt = timeNowUTC()
			accepted = append(accepted, assignment.ID)
			out.toPlayer(address, answerAcceptedEvent(entry.QuestionID))
		}
		if len(accepted) > 0 && answersComplete(room) {
			finishAnswering(room, out)
			advanced = true
		}
		return nil
	})
	if err != nil {
		s.ws.SendToPlayer(address, errorEvent(err.Error()))
		return
	}
	s.flush(out)
	if err := s.persistAnswers(room, accepted); err != nil {
		log.Printf("persist answers failed room=%s error=%v", room.Name, err)
	}
	if advanced {
		log.Printf("answering complete room=%s round=%d", room.Name, room.CurrentRound)
		if err := s.persistPhase(room, "voting_opened", EventPayload{Phase: room.Phase, Round: room.CurrentRound}); err != nil {
			log.Printf("persist phase failed room=%s error=%v", room.Name, err)
		}
		s.syncPhaseTimer(room)
	}
}

// handleVoteListEvent records a batch of likes. Self and repeated votes
// are rejected per entry without aborting the rest.
func (s *Server) handleVoteListEvent(roomName, address string, event *voteListEvent) {
	out := &outbox{roomName: roomName}
	liked := make([]likeRecord, 0, len(event.Votes))
	scored := false
	room, err := s.store.UpdateRoom(roomName, func(room *Room) error {
		player := playerByAddress(room, address)
		if player == nil {
			return ErrNotInRoom
		}
		if room.Phase != phaseVoting {
			return ErrWrongPhase
		}
		for _, vote := range event.Votes {
			assignment, err := recordLike(room, player.ID, vote.VoteID)
			if err != nil {
				out.toPlayer(address, errorEvent(err.Error()))
				continue
			}
			liked = append(liked, likeRecord{AssignmentID: assignment.ID, VoterID: player.ID})
		}
		if len(liked) > 0 && votesComplete(room) {
			s.finishVoting(room, out)
			scored = true
		}
		return nil
	})
	if err != nil {
		s.ws.SendToPlayer(address, errorEvent(err.Error()))
		return
	}
	s.flush(out)
	if err := s.persistLikes(room, liked); err != nil {
		log.Printf("persist likes failed room=%s error=%v", room.Name, err)
	}
	if scored {
		s.afterScoring(room)
	}
}

// afterScoring persists the scored round and whatever the room moved on
// to, then reschedules or cancels the deadline timer.
func (s *Server) afterScoring(room *Room) {
	log.Printf("round scored room=%s round=%d phase=%s", room.Name, room.CurrentRound, room.Phase)
	if err := s.persistScores(room); err != nil {
		log.Printf("persist scores failed room=%s error=%v", room.Name, err)
	}
	if room.Phase == phaseAnswering {
		if err := s.persistRoundStart(room); err != nil {
			log.Printf("persist round start failed room=%s error=%v", room.Name, err)
		}
	} else {
		if err := s.persistPhase(room, "room_finished", EventPayload{Phase: room.Phase, Round: room.CurrentRound}); err != nil {
			log.Printf("persist phase failed room=%s error=%v", room.Name, err)
		}
	}
	s.syncPhaseTimer(room)
}

// handleGreeting binds an authenticated user's connection to their player
// and replays the state they need for the current phase.
func (s *Server) handleGreeting(roomName, address string, event *greetingEvent) {
	identity, err := s.resolveIdentity(event.Token)
	if err != nil {
		s.ws.SendToPlayer(address, errorEvent("authentication failed"))
		return
	}
	out := &outbox{roomName: roomName}
	playerName := ""
	room, err := s.store.UpdateRoom(roomName, func(room *Room) error {
		player := playerByUserID(room, identity.UserID)
		if player == nil {
			return ErrNotInRoom
		}
		markConnected(player, address)
		playerName = player.Name
		if player.IsHost && room.Paused {
			room.Paused = false
			out.toRoom(resumeEvent())
		}
		out.toPlayer(address, defineEvent(room, player))
		out.toPlayer(address, greetingRosterEvent(room))
		out.toRoom(connectionEvent(player.Name, "connected"))
		switch room.Phase {
		case phaseAnswering:
			if open := openAssignments(room, player.ID); len(open) > 0 {
				out.toPlayer(address, questionListEvent(open))
			}
		case phaseVoting:
			out.toPlayer(address, voteListBallotEvent(roundBallot(room)))
		case phaseFinished:
			out.toPlayer(address, winnerEvent(roomWinner(room)))
		}
		return nil
	})
	if err != nil {
		s.ws.SendToPlayer(address, errorEvent(err.Error()))
		return
	}
	s.flush(out)
	log.Printf("player connected room=%s player=%s", room.Name, playerName)
	if err := s.persistEvent(room, "player_connected", EventPayload{Player: playerName}); err != nil {
		log.Printf("persist event failed room=%s error=%v", room.Name, err)
	}
}

// handleDisconnect flips the player's liveness off, pauses the room if
// the host dropped, re-checks the completion predicates with the smaller
// live set, and tears the room down once nobody is left.
func (s *Server) handleDisconnect(roomName, address string) {
	s.ws.Remove(roomName, address)
	out := &outbox{roomName: roomName}
	playerName := ""
	empty := false
	advanced := false
	scored := false
	room, err := s.store.UpdateRoom(roomName, func(room *Room) error {
		player := playerByAddress(room, address)
		if player == nil {
			return nil
		}
		markDisconnected(player)
		playerName = player.Name
		out.toRoom(connectionEvent(player.Name, "disconnected"))
		if player.IsHost && room.Phase != phaseFinished && !room.Paused {
			room.Paused = true
			out.toRoom(pauseEvent())
		}
		if liveCount(room) > 0 {
			switch room.Phase {
			case phaseAnswering:
				if answersComplete(room) {
					finishAnswering(room, out)
					advanced = true
				}
			case phaseVoting:
				if votesComplete(room) {
					s.finishVoting(room, out)
					scored = true
				}
			}
		}
		empty = liveCount(room) == 0
		return nil
	})
	if err != nil || playerName == "" {
		return
	}
	s.flush(out)
	log.Printf("player disconnected room=%s player=%s", room.Name, playerName)
	if err := s.persistEvent(room, "player_disconnected", EventPayload{Player: playerName}); err != nil {
		log.Printf("persist event failed room=%s error=%v", room.Name, err)
	}
	if advanced {
		if err := s.persistPhase(room, "voting_opened", EventPayload{Phase: room.Phase, Round: room.CurrentRound}); err != nil {
			log.Printf("persist phase failed room=%s error=%v", room.Name, err)
		}
		s.syncPhaseTimer(room)
	}
	if scored {
		s.afterScoring(room)
	}
	if empty {
		s.teardownRoom(room)
	}
}

// teardownRoom archives a fully disconnected room and drops it from the
// active store.
func (s *Server) teardownRoom(room *Room) {
	s.cancelPhaseTimer(room.Name)
	if err := s.archiveRoom(room); err != nil {
		log.Printf("archive room failed room=%s error=%v", room.Name, err)
	}
	s.store.RemoveRoom(room.Name)
	log.Printf("room torn down room=%s round=%d phase=%s", room.Name, room.CurrentRound, room.Phase)
}

type likeRecord struct {
	AssignmentID int
	VoterID      int
}
