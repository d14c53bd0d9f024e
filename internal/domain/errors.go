package domain

import "errors"

var (
	// ErrUnauthenticated is returned when no caller identity is supplied.
	ErrUnauthenticated = errors.New("caller is not authenticated")
	// ErrRoomNotFound is returned when a room code or ID does not resolve.
	ErrRoomNotFound = errors.New("room not found")
	// ErrQuizNotFound indicates the referenced quiz could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrForbidden is returned when a non-host calls a host-only operation.
	ErrForbidden = errors.New("only the host may do that")
	// ErrRoomClosed is returned when joining a room that already started.
	ErrRoomClosed = errors.New("room is no longer accepting players")
	// ErrRoomNotWaiting is returned when starting a room that is not in the lobby phase.
	ErrRoomNotWaiting = errors.New("room has already started")
	// ErrQuizNotActive is returned when submitting to a room that is not mid-quiz.
	ErrQuizNotActive = errors.New("quiz is not active")
	// ErrStaleSubmission is returned when an answer targets a question the
	// room has already moved past.
	ErrStaleSubmission = errors.New("submission targets a stale question")
	// ErrAlreadyAnswered is returned on a duplicate answer for the current question.
	ErrAlreadyAnswered = errors.New("current question already answered")
	// ErrNotAMember is returned when the caller has no player record in the room.
	ErrNotAMember = errors.New("caller is not a member of the room")
	// ErrCodeTaken signals a room-code reservation conflict; creation retries.
	ErrCodeTaken = errors.New("room code already reserved")
)
