package verification

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidCode     = errors.New("verification code must be 4 digits")
	ErrInvalidRole     = errors.New("role must be customer or cleaner")
	ErrForbidden       = errors.New("not a party to this booking")
	ErrUnauthorized    = errors.New("unauthorized")
)
