package admin

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrCodeTaken      = errors.New("promo code already active")
)
