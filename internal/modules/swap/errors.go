package swap

import "errors"

var (
	ErrValidation    = errors.New("invalid swap input")
	ErrNotFound      = errors.New("swap resource not found")
	ErrInvalidState  = errors.New("swap precondition not met")
	ErrConflict      = errors.New("swap lost a concurrent update")
	ErrQuotaExceeded = errors.New("monthly swap allowance exhausted")
)
