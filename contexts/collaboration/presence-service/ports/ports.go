package ports

import (
	"context"
	"time"

	"retroboard/contexts/collaboration/presence-service/domain/entities"
	"retroboard/internal/shared/events"
)

// ParticipantRepository persists presence records keyed by the
// (retrospective_id, user_id) pair.
type ParticipantRepository interface {
	UpsertParticipant(ctx context.Context, participant entities.Participant) error
	GetParticipant(ctx context.Context, retroID, userID string) (entities.Participant, bool, error)
	// ListOnlineParticipants returns only rows currently flagged online,
	// ordered by join time.
	ListOnlineParticipants(ctx context.Context, retroID string) ([]entities.Participant, error)
}

// PresenceSweepRepository is the storage surface of the expiry worker.
type PresenceSweepRepository interface {
	// MarkStaleOffline flips online rows whose last activity predates the
	// cutoff and reports how many changed.
	MarkStaleOffline(ctx context.Context, cutoff time.Time) (int, error)
	// DeleteExpiredParticipants removes rows whose last activity predates the
	// cutoff regardless of online state.
	DeleteExpiredParticipants(ctx context.Context, cutoff time.Time) (int, error)
}

// RetrospectiveProjection is the slice of the retrospective the tracker
// needs: facilitator identity for role assignment.
type RetrospectiveProjection struct {
	RetrospectiveID string
	FacilitatorID   string
}

// RetrospectiveReader resolves the owning retrospective and persists the
// denormalized participant count after every Join/Leave.
type RetrospectiveReader interface {
	GetRetrospective(ctx context.Context, retroID string) (RetrospectiveProjection, error)
	SetParticipantCount(ctx context.Context, retroID string, count int, now time.Time) error
}

// EventBroadcaster fans an event out to the retrospective's subscribers.
type EventBroadcaster interface {
	Broadcast(retroID string, event events.Event)
}

type Clock interface {
	Now() time.Time
}
