package ports

import (
	"context"
	"time"

	"retroboard/contexts/collaboration/retrospective-service/domain/entities"
	"retroboard/internal/shared/events"
)

type ListFilter struct {
	TeamID   string
	Statuses []entities.Status
	Limit    int
}

// StatusTransition reports a successful compare-and-swap phase move.
type StatusTransition struct {
	Previous      entities.Status
	Current       entities.Status
	Retrospective entities.Retrospective
}

type RetrospectiveRepository interface {
	Create(ctx context.Context, retro entities.Retrospective) error
	Get(ctx context.Context, retroID string) (entities.Retrospective, error)
	List(ctx context.Context, filter ListFilter) ([]entities.Retrospective, error)
	Update(ctx context.Context, retro entities.Retrospective) error
	Delete(ctx context.Context, retroID string) error

	// TransitionStatus atomically checks the current status against the
	// allowed source set and writes the target status; the check and the
	// write are linearizable so concurrent transitions cannot both succeed.
	// Moving to ACTIVE records StartedAt, moving to COMPLETED records
	// CompletedAt. Fails ErrInvalidStatus when the current phase is not in
	// the source set.
	TransitionStatus(
		ctx context.Context,
		retroID string,
		from []entities.Status,
		to entities.Status,
		now time.Time,
	) (StatusTransition, error)

	// Counter mutations are reserved for the engines owning the child rows.
	AdjustItemCount(ctx context.Context, retroID string, delta int, now time.Time) error
	AdjustActionItemCount(ctx context.Context, retroID string, delta int, now time.Time) error
	SetParticipantCount(ctx context.Context, retroID string, count int, now time.Time) error
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
