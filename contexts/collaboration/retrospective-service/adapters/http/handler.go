package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"retroboard/contexts/collaboration/retrospective-service/application"
	"retroboard/contexts/collaboration/retrospective-service/domain/entities"
	"retroboard/contexts/collaboration/retrospective-service/ports"
	httptransport "retroboard/contexts/collaboration/retrospective-service/transport/http"
)

type Handler struct {
	Retrospectives application.Service
	Logger         *slog.Logger
}

func (h Handler) CreateRetrospectiveHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateRetrospectiveRequest,
) (httptransport.RetrospectiveResponse, error) {
	input := application.CreateInput{
		TeamID:        req.TeamID,
		TeamName:      req.TeamName,
		SprintName:    req.SprintName,
		Description:   req.Description,
		TemplateType:  entities.TemplateType(req.TemplateType),
		CustomColumns: columnsFromPayload(req.CustomColumns),
		CreatedBy:     userID,
		FacilitatorID: req.FacilitatorID,
	}
	if req.VotingConfig != nil {
		input.VotingConfig = &entities.VotingConfig{
			MaxVotesPerUser:           req.VotingConfig.MaxVotesPerUser,
			AllowMultipleVotesPerItem: req.VotingConfig.AllowMultipleVotesPerItem,
			AnonymousVoting:           req.VotingConfig.AnonymousVoting,
		}
	}
	retro, err := h.Retrospectives.Create(ctx, input)
	if err != nil {
		return httptransport.RetrospectiveResponse{}, err
	}
	return toRetrospectiveResponse(retro), nil
}

func (h Handler) GetRetrospectiveHandler(ctx context.Context, retroID string) (httptransport.RetrospectiveResponse, error) {
	retro, err := h.Retrospectives.Get(ctx, retroID)
	if err != nil {
		return httptransport.RetrospectiveResponse{}, err
	}
	return toRetrospectiveResponse(retro), nil
}

func (h Handler) ListRetrospectivesHandler(
	ctx context.Context,
	teamID string,
	statuses []string,
	limit int,
) (httptransport.RetrospectiveListResponse, error) {
	filter := ports.ListFilter{
		TeamID: teamID,
		Limit:  limit,
	}
	for _, status := range statuses {
		filter.Statuses = append(filter.Statuses, entities.Status(status))
	}
	retros, err := h.Retrospectives.List(ctx, filter)
	if err != nil {
		return httptransport.RetrospectiveListResponse{}, err
	}
	items := make([]httptransport.RetrospectiveResponse, 0, len(retros))
	for _, retro := range retros {
		items = append(items, toRetrospectiveResponse(retro))
	}
	return httptransport.RetrospectiveListResponse{Items: items}, nil
}

func (h Handler) UpdateRetrospectiveHandler(
	ctx context.Context,
	retroID string,
	req httptransport.UpdateRetrospectiveRequest,
) (httptransport.RetrospectiveResponse, error) {
	retro, err := h.Retrospectives.Update(ctx, retroID, application.Patch{
		SprintName:    req.SprintName,
		Description:   req.Description,
		FacilitatorID: req.FacilitatorID,
	})
	if err != nil {
		return httptransport.RetrospectiveResponse{}, err
	}
	return toRetrospectiveResponse(retro), nil
}

func (h Handler) DeleteRetrospectiveHandler(ctx context.Context, retroID string) error {
	return h.Retrospectives.Delete(ctx, retroID)
}

func (h Handler) ActivateHandler(ctx context.Context, retroID string, userID string) (httptransport.RetrospectiveResponse, error) {
	retro, err := h.Retrospectives.Activate(ctx, retroID, userID)
	if err != nil {
		return httptransport.RetrospectiveResponse{}, err
	}
	return toRetrospectiveResponse(retro), nil
}

func (h Handler) StartVotingHandler(ctx context.Context, retroID string, userID string) (httptransport.RetrospectiveResponse, error) {
	retro, err := h.Retrospectives.StartVoting(ctx, retroID, userID)
	if err != nil {
		return httptransport.RetrospectiveResponse{}, err
	}
	return toRetrospectiveResponse(retro), nil
}

func (h Handler) StartDiscussionHandler(ctx context.Context, retroID string, userID string) (httptransport.RetrospectiveResponse, error) {
	retro, err := h.Retrospectives.StartDiscussion(ctx, retroID, userID)
	if err != nil {
		return httptransport.RetrospectiveResponse{}, err
	}
	return toRetrospectiveResponse(retro), nil
}

func (h Handler) CompleteHandler(ctx context.Context, retroID string, userID string) (httptransport.RetrospectiveResponse, error) {
	retro, err := h.Retrospectives.Complete(ctx, retroID, userID)
	if err != nil {
		return httptransport.RetrospectiveResponse{}, err
	}
	return toRetrospectiveResponse(retro), nil
}

func toRetrospectiveResponse(retro entities.Retrospective) httptransport.RetrospectiveResponse {
	columns := make([]httptransport.ColumnPayload, 0, len(retro.Columns))
	for _, column := range retro.Columns {
		columns = append(columns, httptransport.ColumnPayload{
			ColumnID:    column.ColumnID,
			Name:        column.Name,
			Description: column.Description,
			Icon:        column.Icon,
			SortOrder:   column.SortOrder,
			Color:       column.Color,
		})
	}
	return httptransport.RetrospectiveResponse{
		RetrospectiveID: retro.RetrospectiveID,
		TeamID:          retro.TeamID,
		TeamName:        retro.TeamName,
		SprintName:      retro.SprintName,
		Description:     retro.Description,
		TemplateType:    string(retro.TemplateType),
		Columns:         columns,
		VotingConfig: httptransport.VotingConfigPayload{
			MaxVotesPerUser:           retro.VotingConfig.MaxVotesPerUser,
			AllowMultipleVotesPerItem: retro.VotingConfig.AllowMultipleVotesPerItem,
			AnonymousVoting:           retro.VotingConfig.AnonymousVoting,
		},
		Status:           string(retro.Status),
		CreatedBy:        retro.CreatedBy,
		FacilitatorID:    retro.FacilitatorID,
		ParticipantCount: retro.ParticipantCount,
		ItemCount:        retro.ItemCount,
		ActionItemCount:  retro.ActionItemCount,
		StartedAt:        formatOptionalTime(retro.StartedAt),
		CompletedAt:      formatOptionalTime(retro.CompletedAt),
		CreatedAt:        retro.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        retro.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func columnsFromPayload(payload []httptransport.ColumnPayload) []entities.Column {
	if len(payload) == 0 {
		return nil
	}
	columns := make([]entities.Column, 0, len(payload))
	for _, column := range payload {
		columns = append(columns, entities.Column{
			ColumnID:    column.ColumnID,
			Name:        column.Name,
			Description: column.Description,
			Icon:        column.Icon,
			SortOrder:   column.SortOrder,
			Color:       column.Color,
		})
	}
	return columns
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
