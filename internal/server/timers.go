package server

import (
	"log"
	"sync"
	"time"
)

// Phase deadline timers. Answering and voting are time-boxed so an
// unresponsive player cannot stall the room; the deadline forces the
// transition with whatever was submitted. A timer that fires after the
// room already moved on is a no-op because the callback re-checks the
// phase inside the room lock.

type phaseTimers struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newPhaseTimers() *phaseTimers {
	return &phaseTimers{timers: make(map[string]*time.Timer)}
}

// syncPhaseTimer reschedules the room's timer for its current phase or
// cancels it when the phase has no deadline.
func (s *Server) syncPhaseTimer(room *Room) {
	duration := s.phaseDuration(room.Phase)
	if duration <= 0 {
		s.cancelPhaseTimer(room.Name)
		return
	}
	roomName := room.Name
	expectedPhase := room.Phase
	expectedRound := room.CurrentRound
	s.timers.mu.Lock()
	if existing, ok := s.timers.timers[roomName]; ok {
		existing.Stop()
	}
	s.timers.timers[roomName] = time.AfterFunc(duration, func() {
		s.forcePhaseAdvance(roomName, expectedPhase, expectedRound)
	})
	s.timers.mu.Unlock()
}

func (s *Server) cancelPhaseTimer(roomName string) {
	s.timers.mu.Lock()
	defer s.timers.mu.Unlock()
	if timer, ok := s.timers.timers[roomName]; ok {
		timer.Stop()
		delete(s.timers.timers, roomName)
	}
}

func (s *Server) phaseDuration(phase string) time.Duration {
	switch phase {
	case phaseAnswering:
		return time.Duration(s.cfg.AnswerDurationSeconds) * time.Second
	case phaseVoting:
		return time.Duration(s.cfg.VoteDurationSeconds) * time.Second
	default:
		return 0
	}
}

// forcePhaseAdvance is the deadline callback. Unanswered assignments stay
// pending and are simply absent from the ballot and from scoring.
func (s *Server) forcePhaseAdvance(roomName, expectedPhase string, expectedRound int) {
	out := &outbox{roomName: roomName}
	advanced := false
	scored := false
	room, err := s.store.UpdateRoom(roomName, func(room *Room) error {
		if room.Phase != expectedPhase || room.CurrentRound != expectedRound {
			return ErrWrongPhase
		}
		switch expectedPhase {
		case phaseAnswering:
			if len(roundBallot(room)) == 0 {
				// Nobody answered at all; the game cannot continue.
				finishRoom(room, out)
				return nil
			}
			finishAnswering(room, out)
			advanced = true
		case phaseVoting:
			s.finishVoting(room, out)
			scored = true
		}
		return nil
	})
	if err != nil {
		// Stale timer: the room advanced naturally or was torn down.
		return
	}
	s.flush(out)
	log.Printf("phase deadline fired room=%s from=%s to=%s round=%d", room.Name, expectedPhase, room.Phase, room.CurrentRound)
	if advanced {
		if err := s.persistPhase(room, "voting_opened", EventPayload{Phase: room.Phase, Round: room.CurrentRound, Reason: "timeout"}); err != nil {
			log.Printf("persist phase failed room=%s error=%v", room.Name, err)
		}
		s.syncPhaseTimer(room)
		return
	}
	if scored {
		s.afterScoring(room)
		return
	}
	// The room finished because nothing was submitted.
	if err := s.persistPhase(room, "room_finished", EventPayload{Phase: room.Phase, Round: room.CurrentRound, Reason: "timeout"}); err != nil {
		log.Printf("persist phase failed room=%s error=%v", room.Name, err)
	}
	s.cancelPhaseTimer(room.Name)
}
