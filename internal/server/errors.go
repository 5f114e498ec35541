package server

import "errors"

// Precondition errors: reported to the requesting connection, room phase
// unchanged, retryable.
var (
	ErrNotEnoughPlayers  = errors.New("not enough players to start")
	ErrInsufficientTasks = errors.New("not enough unused tasks for the remaining rounds")
	ErrDuplicateName     = errors.New("name already taken in this room")
)

// Consistency violations: rejected per entry, never abort the rest of a
// batch event.
var (
	ErrSelfVote     = errors.New("cannot like your own answer")
	ErrAlreadyVoted = errors.New("already liked this answer")
	ErrNotAssigned  = errors.New("question is not assigned to you")
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomExists     = errors.New("room already exists")
	ErrRoomStarted    = errors.New("room already started")
	ErrRoomPaused     = errors.New("room is paused")
	ErrNotHost        = errors.New("only the host can do that")
	ErrNotInRoom      = errors.New("you are not a member of this room")
	ErrWrongPhase     = errors.New("event not valid in the current phase")
	ErrBadCredentials = errors.New("invalid username or password")
	ErrBadPassword    = errors.New("invalid room password")
)
