package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid retrospective input")
	ErrRetrospectiveNotFound = errors.New("retrospective not found")
	ErrInvalidStatus         = errors.New("invalid status transition")
)
