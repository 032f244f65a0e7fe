package tracking

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrNoDestination   = errors.New("house has no coordinates")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
)
