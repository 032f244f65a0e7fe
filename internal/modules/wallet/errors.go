package wallet

import "errors"

var ErrUnauthorized = errors.New("unauthorized")
