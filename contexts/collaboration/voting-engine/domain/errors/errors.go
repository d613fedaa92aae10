package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid voting input")
	ErrVoteNotFound          = errors.New("vote not found")
	ErrItemNotFound          = errors.New("item not found")
	ErrRetrospectiveNotFound = errors.New("retrospective not found")
	ErrVotingClosed          = errors.New("voting is not currently allowed")
	ErrAlreadyVoted          = errors.New("already voted for this item")
	ErrVoteLimitExceeded     = errors.New("vote limit exceeded")
)
