package booking

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrHouseNotFound    = errors.New("house not found")
	ErrInvalidPromo     = errors.New("promo code is not valid")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrNoCleanerProfile = errors.New("cleaner profile required")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthorized     = errors.New("unauthorized")
)
