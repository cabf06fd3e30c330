package model

import "errors"

// Error taxonomy shared by stores, services and the HTTP layer.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrDuplicateEmail  = errors.New("email already in use")
	ErrInvalidInput    = errors.New("invalid input")
)
