package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"retroboard/contexts/collaboration/board-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-service/domain/errors"
	"retroboard/contexts/collaboration/board-service/ports"
	"retroboard/internal/shared/events"
)

const anonymousAuthorName = "Anonymous"

// ItemService owns the cards on the retrospective board.
type ItemService struct {
	Items          ports.ItemRepository
	Retrospectives ports.RetrospectiveReader
	Hub            ports.EventBroadcaster
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

type CreateItemInput struct {
	RetrospectiveID string
	ColumnID        string
	Content         string
	CreatedBy       string
	CreatedByName   string
	IsAnonymous     bool
}

// ItemPatch lists the mutable card fields. Content cannot be cleared.
type ItemPatch struct {
	Content *string
}

func (s ItemService) Create(ctx context.Context, input CreateItemInput) (entities.Item, error) {
	if strings.TrimSpace(input.RetrospectiveID) == "" ||
		strings.TrimSpace(input.ColumnID) == "" ||
		strings.TrimSpace(input.Content) == "" {
		return entities.Item{}, fmt.Errorf("%w: retrospective_id, column_id and content are required", domainerrors.ErrInvalidInput)
	}
	if strings.TrimSpace(input.CreatedBy) == "" {
		return entities.Item{}, fmt.Errorf("%w: acting user is required", domainerrors.ErrInvalidInput)
	}

	retro, err := s.Retrospectives.GetRetrospective(ctx, strings.TrimSpace(input.RetrospectiveID))
	if err != nil {
		return entities.Item{}, err
	}
	if !retro.HasColumn(strings.TrimSpace(input.ColumnID)) {
		return entities.Item{}, fmt.Errorf("%w: unknown column %q", domainerrors.ErrInvalidInput, input.ColumnID)
	}

	position, err := s.Items.CountItemsByColumn(ctx, retro.RetrospectiveID, strings.TrimSpace(input.ColumnID))
	if err != nil {
		return entities.Item{}, err
	}

	authorName := strings.TrimSpace(input.CreatedByName)
	if input.IsAnonymous {
		authorName = anonymousAuthorName
	}

	itemID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Item{}, err
	}
	now := s.now()
	item := entities.Item{
		ItemID:          itemID,
		RetrospectiveID: retro.RetrospectiveID,
		ColumnID:        strings.TrimSpace(input.ColumnID),
		Content:         strings.TrimSpace(input.Content),
		CreatedBy:       strings.TrimSpace(input.CreatedBy),
		CreatedByName:   authorName,
		IsAnonymous:     input.IsAnonymous,
		Position:        position,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Items.CreateItem(ctx, item); err != nil {
		return entities.Item{}, err
	}
	if err := s.Retrospectives.AdjustItemCount(ctx, retro.RetrospectiveID, 1, now); err != nil {
		resolveLogger(s.Logger).Warn("item count adjustment failed",
			"event", "board_item_count_adjust_failed",
			"module", "collaboration/board-service",
			"layer", "application",
			"retrospective_id", retro.RetrospectiveID,
			"error", err.Error(),
		)
	}

	event := events.New(retro.RetrospectiveID, events.TypeItemCreated, now)
	event.ItemCreated = itemPayload(item)
	s.Hub.Broadcast(retro.RetrospectiveID, event)

	resolveLogger(s.Logger).Info("board item created",
		"event", "board_item_created",
		"module", "collaboration/board-service",
		"layer", "application",
		"retrospective_id", retro.RetrospectiveID,
		"item_id", item.ItemID,
		"column_id", item.ColumnID,
	)
	return item, nil
}

func (s ItemService) Get(ctx context.Context, itemID string) (entities.Item, error) {
	if strings.TrimSpace(itemID) == "" {
		return entities.Item{}, fmt.Errorf("%w: item_id is required", domainerrors.ErrInvalidInput)
	}
	return s.Items.GetItem(ctx, strings.TrimSpace(itemID))
}

func (s ItemService) List(ctx context.Context, filter ports.ItemListFilter) ([]entities.Item, error) {
	if strings.TrimSpace(filter.RetrospectiveID) == "" {
		return nil, fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}
	return s.Items.ListItems(ctx, filter)
}

func (s ItemService) Update(ctx context.Context, itemID string, patch ItemPatch) (entities.Item, error) {
	if strings.TrimSpace(itemID) == "" {
		return entities.Item{}, fmt.Errorf("%w: item_id is required", domainerrors.ErrInvalidInput)
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return entities.Item{}, fmt.Errorf("%w: content cannot be cleared", domainerrors.ErrInvalidInput)
	}

	item, err := s.Items.GetItem(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return entities.Item{}, err
	}
	if patch.Content != nil {
		item.Content = strings.TrimSpace(*patch.Content)
	}
	item.UpdatedAt = s.now()
	if err := s.Items.UpdateItem(ctx, item); err != nil {
		return entities.Item{}, err
	}

	event := events.New(item.RetrospectiveID, events.TypeItemUpdated, item.UpdatedAt)
	event.ItemUpdated = itemPayload(item)
	s.Hub.Broadcast(item.RetrospectiveID, event)
	return item, nil
}

// MoveToColumn reparents a card inside the same retrospective. The target
// column must exist on the owning retrospective.
func (s ItemService) MoveToColumn(
	ctx context.Context,
	retroID string,
	itemID string,
	targetColumnID string,
	position int,
) (entities.Item, error) {
	if strings.TrimSpace(itemID) == "" || strings.TrimSpace(targetColumnID) == "" {
		return entities.Item{}, fmt.Errorf("%w: item_id and target_column_id are required", domainerrors.ErrInvalidInput)
	}

	item, err := s.Items.GetItem(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return entities.Item{}, err
	}
	if strings.TrimSpace(retroID) != "" && item.RetrospectiveID != strings.TrimSpace(retroID) {
		return entities.Item{}, fmt.Errorf("%w: item does not belong to this retrospective", domainerrors.ErrInvalidInput)
	}

	retro, err := s.Retrospectives.GetRetrospective(ctx, item.RetrospectiveID)
	if err != nil {
		return entities.Item{}, err
	}
	if !retro.HasColumn(strings.TrimSpace(targetColumnID)) {
		return entities.Item{}, fmt.Errorf("%w: unknown target column %q", domainerrors.ErrInvalidInput, targetColumnID)
	}

	item.ColumnID = strings.TrimSpace(targetColumnID)
	item.Position = position
	item.UpdatedAt = s.now()
	if err := s.Items.UpdateItem(ctx, item); err != nil {
		return entities.Item{}, err
	}

	event := events.New(item.RetrospectiveID, events.TypeItemUpdated, item.UpdatedAt)
	event.ItemUpdated = itemPayload(item)
	s.Hub.Broadcast(item.RetrospectiveID, event)
	return item, nil
}

func (s ItemService) Delete(ctx context.Context, retroID string, itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("%w: item_id is required", domainerrors.ErrInvalidInput)
	}

	item, err := s.Items.GetItem(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return err
	}
	if strings.TrimSpace(retroID) != "" && item.RetrospectiveID != strings.TrimSpace(retroID) {
		return fmt.Errorf("%w: item does not belong to this retrospective", domainerrors.ErrInvalidInput)
	}

	if err := s.Items.DeleteItem(ctx, item.ItemID); err != nil {
		return err
	}
	now := s.now()
	if err := s.Retrospectives.AdjustItemCount(ctx, item.RetrospectiveID, -1, now); err != nil {
		resolveLogger(s.Logger).Warn("item count adjustment failed",
			"event", "board_item_count_adjust_failed",
			"module", "collaboration/board-service",
			"layer", "application",
			"retrospective_id", item.RetrospectiveID,
			"error", err.Error(),
		)
	}

	event := events.New(item.RetrospectiveID, events.TypeItemDeleted, now)
	event.ItemDeleted = &events.ItemDeleted{
		ItemID:   item.ItemID,
		ColumnID: item.ColumnID,
	}
	s.Hub.Broadcast(item.RetrospectiveID, event)
	return nil
}

func (s ItemService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func itemPayload(item entities.Item) *events.ItemPayload {
	payload := &events.ItemPayload{
		ItemID:      item.ItemID,
		ColumnID:    item.ColumnID,
		Content:     item.Content,
		VoteCount:   item.VoteCount,
		IsAnonymous: item.IsAnonymous,
		Position:    item.Position,
	}
	// Anonymous cards never leak the author through the event stream.
	if !item.IsAnonymous {
		payload.CreatedBy = item.CreatedBy
		payload.CreatedByName = item.CreatedByName
	}
	return payload
}
