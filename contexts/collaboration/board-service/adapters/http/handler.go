package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"retroboard/contexts/collaboration/board-service/application"
	"retroboard/contexts/collaboration/board-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-service/domain/errors"
	"retroboard/contexts/collaboration/board-service/ports"
	httptransport "retroboard/contexts/collaboration/board-service/transport/http"
)

type Handler struct {
	Items       application.ItemService
	ActionItems application.ActionItemService
	Logger      *slog.Logger
}

func (h Handler) CreateItemHandler(
	ctx context.Context,
	retroID string,
	userID string,
	userName string,
	req httptransport.CreateItemRequest,
) (httptransport.ItemResponse, error) {
	item, err := h.Items.Create(ctx, application.CreateItemInput{
		RetrospectiveID: retroID,
		ColumnID:        req.ColumnID,
		Content:         req.Content,
		CreatedBy:       userID,
		CreatedByName:   userName,
		IsAnonymous:     req.IsAnonymous,
	})
	if err != nil {
		return httptransport.ItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func (h Handler) ListItemsHandler(
	ctx context.Context,
	retroID string,
	columnID string,
	sortByVotes bool,
) (httptransport.ItemListResponse, error) {
	items, err := h.Items.List(ctx, ports.ItemListFilter{
		RetrospectiveID: retroID,
		ColumnID:        columnID,
		SortByVotes:     sortByVotes,
	})
	if err != nil {
		return httptransport.ItemListResponse{}, err
	}
	responses := make([]httptransport.ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toItemResponse(item))
	}
	return httptransport.ItemListResponse{Items: responses}, nil
}

func (h Handler) UpdateItemHandler(
	ctx context.Context,
	itemID string,
	req httptransport.UpdateItemRequest,
) (httptransport.ItemResponse, error) {
	item, err := h.Items.Update(ctx, itemID, application.ItemPatch{Content: req.Content})
	if err != nil {
		return httptransport.ItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func (h Handler) MoveItemHandler(
	ctx context.Context,
	retroID string,
	itemID string,
	req httptransport.MoveItemRequest,
) (httptransport.ItemResponse, error) {
	item, err := h.Items.MoveToColumn(ctx, retroID, itemID, req.TargetColumnID, req.Position)
	if err != nil {
		return httptransport.ItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func (h Handler) DeleteItemHandler(ctx context.Context, retroID string, itemID string) error {
	return h.Items.Delete(ctx, retroID, itemID)
}

func (h Handler) CreateActionItemHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateActionItemRequest,
) (httptransport.ActionItemResponse, error) {
	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		return httptransport.ActionItemResponse{}, err
	}
	actionItem, err := h.ActionItems.Create(ctx, application.CreateActionItemInput{
		RetrospectiveID: req.RetrospectiveID,
		SourceItemID:    req.SourceItemID,
		TeamID:          req.TeamID,
		Description:     req.Description,
		AssigneeID:      req.AssigneeID,
		AssigneeName:    req.AssigneeName,
		Priority:        entities.ActionItemPriority(req.Priority),
		DueDate:         dueDate,
		CreatedBy:       userID,
	})
	if err != nil {
		return httptransport.ActionItemResponse{}, err
	}
	return toActionItemResponse(actionItem), nil
}

func (h Handler) ListActionItemsHandler(
	ctx context.Context,
	filter ports.ActionItemListFilter,
) (httptransport.ActionItemListResponse, error) {
	actionItems, err := h.ActionItems.List(ctx, filter)
	if err != nil {
		return httptransport.ActionItemListResponse{}, err
	}
	responses := make([]httptransport.ActionItemResponse, 0, len(actionItems))
	for _, actionItem := range actionItems {
		responses = append(responses, toActionItemResponse(actionItem))
	}
	return httptransport.ActionItemListResponse{Items: responses}, nil
}

func (h Handler) UpdateActionItemHandler(
	ctx context.Context,
	actionItemID string,
	req httptransport.UpdateActionItemRequest,
) (httptransport.ActionItemResponse, error) {
	patch := application.ActionItemPatch{
		Description:  req.Description,
		AssigneeID:   req.AssigneeID,
		AssigneeName: req.AssigneeName,
		Notes:        req.Notes,
	}
	if req.Status != nil {
		status := entities.ActionItemStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := entities.ActionItemPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.DueDate != nil {
		dueDate, err := parseOptionalTime(*req.DueDate)
		if err != nil {
			return httptransport.ActionItemResponse{}, err
		}
		patch.DueDate = dueDate
	}
	actionItem, err := h.ActionItems.Update(ctx, actionItemID, patch)
	if err != nil {
		return httptransport.ActionItemResponse{}, err
	}
	return toActionItemResponse(actionItem), nil
}

func (h Handler) UpdateActionItemStatusHandler(
	ctx context.Context,
	actionItemID string,
	req httptransport.UpdateActionItemStatusRequest,
) (httptransport.ActionItemResponse, error) {
	actionItem, err := h.ActionItems.UpdateStatus(ctx, actionItemID, entities.ActionItemStatus(req.Status), req.Notes)
	if err != nil {
		return httptransport.ActionItemResponse{}, err
	}
	return toActionItemResponse(actionItem), nil
}

func (h Handler) DeleteActionItemHandler(ctx context.Context, actionItemID string) error {
	return h.ActionItems.Delete(ctx, actionItemID)
}

func toItemResponse(item entities.Item) httptransport.ItemResponse {
	response := httptransport.ItemResponse{
		ItemID:          item.ItemID,
		RetrospectiveID: item.RetrospectiveID,
		ColumnID:        item.ColumnID,
		Content:         item.Content,
		VoteCount:       item.VoteCount,
		IsAnonymous:     item.IsAnonymous,
		Position:        item.Position,
		HasActionItem:   item.HasActionItem,
		CreatedAt:       item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if !item.IsAnonymous {
		response.CreatedBy = item.CreatedBy
		response.CreatedByName = item.CreatedByName
	}
	return response
}

func toActionItemResponse(actionItem entities.ActionItem) httptransport.ActionItemResponse {
	response := httptransport.ActionItemResponse{
		ActionItemID:     actionItem.ActionItemID,
		RetrospectiveID:  actionItem.RetrospectiveID,
		SourceItemID:     actionItem.SourceItemID,
		TeamID:           actionItem.TeamID,
		Description:      actionItem.Description,
		AssigneeID:       actionItem.AssigneeID,
		AssigneeName:     actionItem.AssigneeName,
		Status:           string(actionItem.Status),
		Priority:         string(actionItem.Priority),
		CreatedBy:        actionItem.CreatedBy,
		SourceSprintName: actionItem.SourceSprintName,
		Notes:            actionItem.Notes,
		CreatedAt:        actionItem.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        actionItem.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if actionItem.DueDate != nil {
		response.DueDate = actionItem.DueDate.UTC().Format(time.RFC3339)
	}
	return response
}

func parseOptionalTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%w: due_date must be RFC 3339", domainerrors.ErrInvalidInput)
	}
	timestamp := parsed.UTC()
	return &timestamp, nil
}
