package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid board input")
	ErrItemNotFound          = errors.New("item not found")
	ErrActionItemNotFound    = errors.New("action item not found")
	ErrRetrospectiveNotFound = errors.New("retrospective not found")
)
