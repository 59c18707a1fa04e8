package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrInsufficientSample    = errors.New("insufficient fixture sample")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
