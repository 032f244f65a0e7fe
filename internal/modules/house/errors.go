package house

import "errors"

var (
	ErrForbidden    = errors.New("only customers can own houses")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidGeo   = errors.New("lat and lng must be given together and be in range")
)
