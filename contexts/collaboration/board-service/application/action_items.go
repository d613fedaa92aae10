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

// ActionItemService owns follow-up tasks. Tasks may be created standalone for
// a team or carved out of a retrospective item.
type ActionItemService struct {
	ActionItems    ports.ActionItemRepository
	Items          ports.ItemRepository
	Retrospectives ports.RetrospectiveReader
	Hub            ports.EventBroadcaster
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

type CreateActionItemInput struct {
	RetrospectiveID string
	SourceItemID    string
	TeamID          string
	Description     string
	AssigneeID      string
	AssigneeName    string
	Priority        entities.ActionItemPriority
	DueDate         *time.Time
	CreatedBy       string
}

// ActionItemPatch lists the mutable fields. Description cannot be cleared;
// a non-nil empty Notes clears the notes.
type ActionItemPatch struct {
	Description  *string
	AssigneeID   *string
	AssigneeName *string
	Status       *entities.ActionItemStatus
	Priority     *entities.ActionItemPriority
	DueDate      *time.Time
	Notes        *string
}

func (s ActionItemService) Create(ctx context.Context, input CreateActionItemInput) (entities.ActionItem, error) {
	if strings.TrimSpace(input.Description) == "" {
		return entities.ActionItem{}, fmt.Errorf("%w: description is required", domainerrors.ErrInvalidInput)
	}
	if strings.TrimSpace(input.CreatedBy) == "" {
		return entities.ActionItem{}, fmt.Errorf("%w: acting user is required", domainerrors.ErrInvalidInput)
	}

	var retro ports.RetrospectiveProjection
	hasRetro := strings.TrimSpace(input.RetrospectiveID) != ""
	if hasRetro {
		var err error
		retro, err = s.Retrospectives.GetRetrospective(ctx, strings.TrimSpace(input.RetrospectiveID))
		if err != nil {
			return entities.ActionItem{}, err
		}
	}

	teamID := strings.TrimSpace(input.TeamID)
	if teamID == "" && hasRetro {
		teamID = retro.TeamID
	}
	if teamID == "" {
		return entities.ActionItem{}, fmt.Errorf("%w: team_id is required", domainerrors.ErrInvalidInput)
	}

	priority := input.Priority
	if priority == "" {
		priority = entities.ActionItemPriorityMedium
	}
	if !priority.IsValid() {
		return entities.ActionItem{}, fmt.Errorf("%w: unknown priority %q", domainerrors.ErrInvalidInput, priority)
	}

	actionItemID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.ActionItem{}, err
	}
	now := s.now()
	actionItem := entities.ActionItem{
		ActionItemID:    actionItemID,
		RetrospectiveID: strings.TrimSpace(input.RetrospectiveID),
		SourceItemID:    strings.TrimSpace(input.SourceItemID),
		TeamID:          teamID,
		Description:     strings.TrimSpace(input.Description),
		AssigneeID:      strings.TrimSpace(input.AssigneeID),
		AssigneeName:    strings.TrimSpace(input.AssigneeName),
		Status:          entities.ActionItemStatusNotStarted,
		Priority:        priority,
		DueDate:         normalizeOptionalTime(input.DueDate),
		CreatedBy:       strings.TrimSpace(input.CreatedBy),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if hasRetro {
		actionItem.SourceSprintName = retro.SprintName
	}

	if err := s.ActionItems.CreateActionItem(ctx, actionItem); err != nil {
		return entities.ActionItem{}, err
	}
	if hasRetro {
		if err := s.Retrospectives.AdjustActionItemCount(ctx, retro.RetrospectiveID, 1, now); err != nil {
			resolveLogger(s.Logger).Warn("action item count adjustment failed",
				"event", "board_action_item_count_adjust_failed",
				"module", "collaboration/board-service",
				"layer", "application",
				"retrospective_id", retro.RetrospectiveID,
				"error", err.Error(),
			)
		}
	}
	s.flagSourceItem(ctx, actionItem)

	if hasRetro {
		event := events.New(retro.RetrospectiveID, events.TypeActionItemCreated, now)
		event.ActionItemCreated = actionItemPayload(actionItem)
		s.Hub.Broadcast(retro.RetrospectiveID, event)
	}

	resolveLogger(s.Logger).Info("action item created",
		"event", "board_action_item_created",
		"module", "collaboration/board-service",
		"layer", "application",
		"action_item_id", actionItem.ActionItemID,
		"retrospective_id", actionItem.RetrospectiveID,
		"team_id", actionItem.TeamID,
	)
	return actionItem, nil
}

func (s ActionItemService) Get(ctx context.Context, actionItemID string) (entities.ActionItem, error) {
	if strings.TrimSpace(actionItemID) == "" {
		return entities.ActionItem{}, fmt.Errorf("%w: action_item_id is required", domainerrors.ErrInvalidInput)
	}
	return s.ActionItems.GetActionItem(ctx, strings.TrimSpace(actionItemID))
}

func (s ActionItemService) List(ctx context.Context, filter ports.ActionItemListFilter) ([]entities.ActionItem, error) {
	if strings.TrimSpace(filter.RetrospectiveID) == "" && strings.TrimSpace(filter.TeamID) == "" {
		return nil, fmt.Errorf("%w: either retrospective_id or team_id is required", domainerrors.ErrInvalidInput)
	}
	for _, status := range filter.Statuses {
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", domainerrors.ErrInvalidInput, status)
		}
	}
	for _, priority := range filter.Priorities {
		if !priority.IsValid() {
			return nil, fmt.Errorf("%w: unknown priority %q", domainerrors.ErrInvalidInput, priority)
		}
	}
	return s.ActionItems.ListActionItems(ctx, filter)
}

func (s ActionItemService) Update(ctx context.Context, actionItemID string, patch ActionItemPatch) (entities.ActionItem, error) {
	if strings.TrimSpace(actionItemID) == "" {
		return entities.ActionItem{}, fmt.Errorf("%w: action_item_id is required", domainerrors.ErrInvalidInput)
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return entities.ActionItem{}, fmt.Errorf("%w: description cannot be cleared", domainerrors.ErrInvalidInput)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return entities.ActionItem{}, fmt.Errorf("%w: unknown status %q", domainerrors.ErrInvalidInput, *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return entities.ActionItem{}, fmt.Errorf("%w: unknown priority %q", domainerrors.ErrInvalidInput, *patch.Priority)
	}

	actionItem, err := s.ActionItems.GetActionItem(ctx, strings.TrimSpace(actionItemID))
	if err != nil {
		return entities.ActionItem{}, err
	}
	if patch.Description != nil {
		actionItem.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.AssigneeID != nil {
		actionItem.AssigneeID = strings.TrimSpace(*patch.AssigneeID)
	}
	if patch.AssigneeName != nil {
		actionItem.AssigneeName = strings.TrimSpace(*patch.AssigneeName)
	}
	if patch.Status != nil {
		actionItem.Status = *patch.Status
	}
	if patch.Priority != nil {
		actionItem.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		actionItem.DueDate = normalizeOptionalTime(patch.DueDate)
	}
	if patch.Notes != nil {
		actionItem.Notes = *patch.Notes
	}
	actionItem.UpdatedAt = s.now()

	if err := s.ActionItems.UpdateActionItem(ctx, actionItem); err != nil {
		return entities.ActionItem{}, err
	}

	if actionItem.RetrospectiveID != "" {
		event := events.New(actionItem.RetrospectiveID, events.TypeActionItemUpdated, actionItem.UpdatedAt)
		event.ActionItemUpdated = actionItemPayload(actionItem)
		s.Hub.Broadcast(actionItem.RetrospectiveID, event)
	}
	return actionItem, nil
}

// UpdateStatus is the narrow status-only mutation used by task boards.
func (s ActionItemService) UpdateStatus(
	ctx context.Context,
	actionItemID string,
	status entities.ActionItemStatus,
	notes string,
) (entities.ActionItem, error) {
	patch := ActionItemPatch{Status: &status}
	if strings.TrimSpace(notes) != "" {
		patch.Notes = &notes
	}
	return s.Update(ctx, actionItemID, patch)
}

func (s ActionItemService) Delete(ctx context.Context, actionItemID string) error {
	if strings.TrimSpace(actionItemID) == "" {
		return fmt.Errorf("%w: action_item_id is required", domainerrors.ErrInvalidInput)
	}

	actionItem, err := s.ActionItems.GetActionItem(ctx, strings.TrimSpace(actionItemID))
	if err != nil {
		return err
	}
	if err := s.ActionItems.DeleteActionItem(ctx, actionItem.ActionItemID); err != nil {
		return err
	}
	if actionItem.RetrospectiveID != "" {
		if err := s.Retrospectives.AdjustActionItemCount(ctx, actionItem.RetrospectiveID, -1, s.now()); err != nil {
			resolveLogger(s.Logger).Warn("action item count adjustment failed",
				"event", "board_action_item_count_adjust_failed",
				"module", "collaboration/board-service",
				"layer", "application",
				"retrospective_id", actionItem.RetrospectiveID,
				"error", err.Error(),
			)
		}
	}
	return nil
}

// flagSourceItem marks the originating card so the board can render the
// follow-up indicator. The flag is cosmetic; failures are logged, not
// propagated.
func (s ActionItemService) flagSourceItem(ctx context.Context, actionItem entities.ActionItem) {
	if actionItem.SourceItemID == "" {
		return
	}
	item, err := s.Items.GetItem(ctx, actionItem.SourceItemID)
	if err != nil {
		resolveLogger(s.Logger).Warn("source item flag skipped",
			"event", "board_source_item_flag_failed",
			"module", "collaboration/board-service",
			"layer", "application",
			"item_id", actionItem.SourceItemID,
			"error", err.Error(),
		)
		return
	}
	if item.HasActionItem {
		return
	}
	item.HasActionItem = true
	item.UpdatedAt = s.now()
	if err := s.Items.UpdateItem(ctx, item); err != nil {
		resolveLogger(s.Logger).Warn("source item flag skipped",
			"event", "board_source_item_flag_failed",
			"module", "collaboration/board-service",
			"layer", "application",
			"item_id", item.ItemID,
			"error", err.Error(),
		)
	}
}

func (s ActionItemService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func actionItemPayload(actionItem entities.ActionItem) *events.ActionItemPayload {
	return &events.ActionItemPayload{
		ActionItemID: actionItem.ActionItemID,
		SourceItemID: actionItem.SourceItemID,
		Description:  actionItem.Description,
		AssigneeID:   actionItem.AssigneeID,
		AssigneeName: actionItem.AssigneeName,
		Status:       string(actionItem.Status),
		Priority:     string(actionItem.Priority),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
