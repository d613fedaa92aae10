package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid presence input")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrRetrospectiveNotFound = errors.New("retrospective not found")
)
