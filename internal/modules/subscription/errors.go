package subscription

import "errors"

var (
	ErrValidation    = errors.New("invalid subscription input")
	ErrNotFound      = errors.New("subscription resource not found")
	ErrAlreadyActive = errors.New("user already has an active subscription")
	ErrInvalidState  = errors.New("subscription precondition not met")
	ErrQuotaExceeded = errors.New("monthly swap allowance used up")
)
