package ports

import (
	"context"
	"time"

	"retroboard/contexts/collaboration/board-service/domain/entities"
	"retroboard/internal/shared/events"
)

type ItemListFilter struct {
	RetrospectiveID string
	ColumnID        string
	SortByVotes     bool
}

type ActionItemListFilter struct {
	RetrospectiveID  string
	TeamID           string
	AssigneeID       string
	Statuses         []entities.ActionItemStatus
	Priorities       []entities.ActionItemPriority
	IncludeCompleted bool
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item entities.Item) error
	GetItem(ctx context.Context, itemID string) (entities.Item, error)
	ListItems(ctx context.Context, filter ItemListFilter) ([]entities.Item, error)
	UpdateItem(ctx context.Context, item entities.Item) error
	DeleteItem(ctx context.Context, itemID string) error

	// CountItemsByColumn backs position assignment for new cards.
	CountItemsByColumn(ctx context.Context, retroID string, columnID string) (int, error)
}

type ActionItemRepository interface {
	CreateActionItem(ctx context.Context, actionItem entities.ActionItem) error
	GetActionItem(ctx context.Context, actionItemID string) (entities.ActionItem, error)
	ListActionItems(ctx context.Context, filter ActionItemListFilter) ([]entities.ActionItem, error)
	UpdateActionItem(ctx context.Context, actionItem entities.ActionItem) error
	DeleteActionItem(ctx context.Context, actionItemID string) error
}

// RetrospectiveProjection is the read model of the owning retrospective the
// board needs for validation.
type RetrospectiveProjection struct {
	RetrospectiveID string
	TeamID          string
	SprintName      string
	Status          string
	ColumnIDs       []string
}

func (p RetrospectiveProjection) HasColumn(columnID string) bool {
	for _, id := range p.ColumnIDs {
		if id == columnID {
			return true
		}
	}
	return false
}

// RetrospectiveReader resolves the owning retrospective and keeps its
// denormalized board counters in step with the child rows.
type RetrospectiveReader interface {
	GetRetrospective(ctx context.Context, retroID string) (RetrospectiveProjection, error)
	AdjustItemCount(ctx context.Context, retroID string, delta int, now time.Time) error
	AdjustActionItemCount(ctx context.Context, retroID string, delta int, now time.Time) error
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
