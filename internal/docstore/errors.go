package docstore

import "errors"

var (
	ErrNotFound          = errors.New("document not found")
	ErrInvalidCollection = errors.New("invalid collection")
	ErrInvalidID         = errors.New("invalid document id")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
)
