package cleaner

import "errors"

var (
	ErrProfileNotFound = errors.New("cleaner profile not found")
	ErrInvalidStatus   = errors.New("status must be active or inactive")
	ErrInvalidRadius   = errors.New("service radius must be positive")
	ErrForbidden       = errors.New("only cleaners have profiles")
	ErrUnauthorized    = errors.New("unauthorized")
)
