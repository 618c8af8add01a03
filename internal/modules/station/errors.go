package station

import "errors"

var (
	ErrValidation   = errors.New("invalid station input")
	ErrNotFound     = errors.New("station resource not found")
	ErrConflict     = errors.New("slot lost a concurrent update")
	ErrInvalidState = errors.New("slot precondition not met")
)
