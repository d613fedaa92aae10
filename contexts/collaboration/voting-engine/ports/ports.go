package ports

import (
	"context"
	"time"

	"retroboard/contexts/collaboration/voting-engine/domain/entities"
	"retroboard/internal/shared/events"
)

type VoteRepository interface {
	SaveVote(ctx context.Context, vote entities.Vote) error
	DeleteVote(ctx context.Context, voteID string) error

	// GetVoteByUserAndItem reports found=false rather than an error when the
	// user has not voted on the item.
	GetVoteByUserAndItem(ctx context.Context, retroID string, itemID string, userID string) (entities.Vote, bool, error)
	CountVotesByUser(ctx context.Context, retroID string, userID string) (int, error)
	ListVotesByUser(ctx context.Context, retroID string, userID string) ([]entities.Vote, error)
}

// ItemProjection is the slice of a board item the engine tallies against.
type ItemProjection struct {
	ItemID          string
	RetrospectiveID string
	VoteCount       int
}

type ItemRepository interface {
	GetItem(ctx context.Context, itemID string) (ItemProjection, error)
	ListItems(ctx context.Context, retroID string) ([]ItemProjection, error)

	// IncrementVoteCount and DecrementVoteCount mutate the item's counter
	// atomically and return the value after the change. Decrement floors at
	// zero.
	IncrementVoteCount(ctx context.Context, itemID string) (int, error)
	DecrementVoteCount(ctx context.Context, itemID string) (int, error)
}

// RetrospectiveProjection carries the voting gate and budget rules.
type RetrospectiveProjection struct {
	RetrospectiveID           string
	Status                    string
	MaxVotesPerUser           int
	AllowMultipleVotesPerItem bool
	AnonymousVoting           bool
}

type RetrospectiveReader interface {
	GetRetrospective(ctx context.Context, retroID string) (RetrospectiveProjection, error)
}

type EventBroadcaster interface {
	Broadcast(retroID string, event events.Event)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
