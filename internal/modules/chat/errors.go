package chat

import "errors"

var (
	ErrNotParticipant  = errors.New("you are not a participant of this conversation")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNoCounterpart   = errors.New("booking has no cleaner yet")
	ErrEmptyContent    = errors.New("message content cannot be empty")
	ErrUnauthorized    = errors.New("unauthorized")
)
