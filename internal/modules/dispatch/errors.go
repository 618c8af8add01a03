package dispatch

import "errors"

var (
	ErrValidation = errors.New("invalid dispatch input")
	ErrNotFound   = errors.New("dispatch plan not found")
	ErrStalePlan  = errors.New("dispatch plan no longer matches station state")
	ErrNoMoves    = errors.New("network is balanced, nothing to move")
)
