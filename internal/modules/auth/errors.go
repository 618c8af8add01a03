package auth

import "errors"

var (
	ErrValidation         = errors.New("invalid auth input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("account resource not found")
)
