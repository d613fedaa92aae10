package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"retroboard/contexts/collaboration/retrospective-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/retrospective-service/domain/errors"
	"retroboard/contexts/collaboration/retrospective-service/ports"
	"retroboard/internal/shared/events"
)

const (
	defaultMaxVotesPerUser = 5
	defaultListLimit       = 20
	maxListLimit           = 100
)

// Service owns the retrospective lifecycle and the phase state machine.
type Service struct {
	Repo   ports.RetrospectiveRepository
	Hub    ports.EventBroadcaster
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

type CreateInput struct {
	TeamID        string
	TeamName      string
	SprintName    string
	Description   string
	TemplateType  entities.TemplateType
	CustomColumns []entities.Column
	VotingConfig  *entities.VotingConfig
	CreatedBy     string
	FacilitatorID string
}

// Patch lists the fields a caller may change after creation. Pointer fields
// distinguish "not set" from "set to zero": a non-nil empty Description
// clears it, while SprintName and FacilitatorID reject the empty string.
type Patch struct {
	SprintName    *string
	Description   *string
	FacilitatorID *string
}

func (s Service) Create(ctx context.Context, input CreateInput) (entities.Retrospective, error) {
	if strings.TrimSpace(input.TeamID) == "" ||
		strings.TrimSpace(input.SprintName) == "" ||
		strings.TrimSpace(input.CreatedBy) == "" {
		return entities.Retrospective{}, fmt.Errorf("%w: team_id, sprint_name and creator are required", domainerrors.ErrInvalidInput)
	}

	template := input.TemplateType
	if template == "" {
		template = entities.TemplateWentWellToImprove
	}
	columns := entities.DefaultColumns(template)
	if template == entities.TemplateCustom {
		if len(input.CustomColumns) == 0 {
			return entities.Retrospective{}, fmt.Errorf("%w: custom template requires columns", domainerrors.ErrInvalidInput)
		}
		columns = input.CustomColumns
	}

	config := entities.VotingConfig{MaxVotesPerUser: defaultMaxVotesPerUser}
	if input.VotingConfig != nil {
		config = *input.VotingConfig
		if config.MaxVotesPerUser < 1 {
			config.MaxVotesPerUser = defaultMaxVotesPerUser
		}
	}

	facilitator := strings.TrimSpace(input.FacilitatorID)
	if facilitator == "" {
		facilitator = strings.TrimSpace(input.CreatedBy)
	}

	retroID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Retrospective{}, err
	}
	now := s.now()
	retro := entities.Retrospective{
		RetrospectiveID: retroID,
		TeamID:          strings.TrimSpace(input.TeamID),
		TeamName:        strings.TrimSpace(input.TeamName),
		SprintName:      strings.TrimSpace(input.SprintName),
		Description:     input.Description,
		TemplateType:    template,
		Columns:         columns,
		Status:          entities.StatusDraft,
		VotingConfig:    config,
		CreatedBy:       strings.TrimSpace(input.CreatedBy),
		FacilitatorID:   facilitator,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, retro); err != nil {
		return entities.Retrospective{}, err
	}

	resolveLogger(s.Logger).Info("retrospective created",
		"event", "retrospective_created",
		"module", "collaboration/retrospective-service",
		"layer", "application",
		"retrospective_id", retro.RetrospectiveID,
		"team_id", retro.TeamID,
		"template_type", string(retro.TemplateType),
	)
	return retro, nil
}

func (s Service) Get(ctx context.Context, retroID string) (entities.Retrospective, error) {
	if strings.TrimSpace(retroID) == "" {
		return entities.Retrospective{}, fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}
	return s.Repo.Get(ctx, strings.TrimSpace(retroID))
}

func (s Service) List(ctx context.Context, filter ports.ListFilter) ([]entities.Retrospective, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	for _, status := range filter.Statuses {
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", domainerrors.ErrInvalidInput, status)
		}
	}
	return s.Repo.List(ctx, filter)
}

func (s Service) Update(ctx context.Context, retroID string, patch Patch) (entities.Retrospective, error) {
	if strings.TrimSpace(retroID) == "" {
		return entities.Retrospective{}, fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}
	if patch.SprintName != nil && strings.TrimSpace(*patch.SprintName) == "" {
		return entities.Retrospective{}, fmt.Errorf("%w: sprint_name cannot be cleared", domainerrors.ErrInvalidInput)
	}
	if patch.FacilitatorID != nil && strings.TrimSpace(*patch.FacilitatorID) == "" {
		return entities.Retrospective{}, fmt.Errorf("%w: facilitator_id cannot be cleared", domainerrors.ErrInvalidInput)
	}

	retro, err := s.Repo.Get(ctx, strings.TrimSpace(retroID))
	if err != nil {
		return entities.Retrospective{}, err
	}
	if patch.SprintName != nil {
		retro.SprintName = strings.TrimSpace(*patch.SprintName)
	}
	if patch.Description != nil {
		retro.Description = *patch.Description
	}
	if patch.FacilitatorID != nil {
		retro.FacilitatorID = strings.TrimSpace(*patch.FacilitatorID)
	}
	retro.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, retro); err != nil {
		return entities.Retrospective{}, err
	}
	return retro, nil
}

func (s Service) Delete(ctx context.Context, retroID string) error {
	if strings.TrimSpace(retroID) == "" {
		return fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, strings.TrimSpace(retroID))
}

// Activate opens the board for item collection.
func (s Service) Activate(ctx context.Context, retroID string, actorID string) (entities.Retrospective, error) {
	return s.transition(ctx, retroID, actorID, entities.ActivateSources, entities.StatusActive)
}

// StartVoting moves a DRAFT or ACTIVE retrospective into the voting phase.
func (s Service) StartVoting(ctx context.Context, retroID string, actorID string) (entities.Retrospective, error) {
	return s.transition(ctx, retroID, actorID, entities.StartVotingSources, entities.StatusVoting)
}

// StartDiscussion moves a VOTING retrospective into discussion.
func (s Service) StartDiscussion(ctx context.Context, retroID string, actorID string) (entities.Retrospective, error) {
	return s.transition(ctx, retroID, actorID, entities.StartDiscussionSources, entities.StatusDiscussing)
}

// Complete closes the retrospective from any non-terminal phase and records
// the completion time. A completed retrospective cannot transition again.
func (s Service) Complete(ctx context.Context, retroID string, actorID string) (entities.Retrospective, error) {
	return s.transition(ctx, retroID, actorID, entities.CompleteSources, entities.StatusCompleted)
}

func (s Service) transition(
	ctx context.Context,
	retroID string,
	actorID string,
	from []entities.Status,
	to entities.Status,
) (entities.Retrospective, error) {
	if strings.TrimSpace(retroID) == "" || strings.TrimSpace(actorID) == "" {
		return entities.Retrospective{}, fmt.Errorf("%w: retrospective_id and acting user are required", domainerrors.ErrInvalidInput)
	}

	now := s.now()
	result, err := s.Repo.TransitionStatus(ctx, strings.TrimSpace(retroID), from, to, now)
	if err != nil {
		return entities.Retrospective{}, err
	}

	event := events.New(result.Retrospective.RetrospectiveID, events.TypeStatusChanged, now)
	event.StatusChanged = &events.StatusChanged{
		PreviousStatus: string(result.Previous),
		NewStatus:      string(result.Current),
		ChangedBy:      strings.TrimSpace(actorID),
	}
	s.Hub.Broadcast(result.Retrospective.RetrospectiveID, event)

	resolveLogger(s.Logger).Info("retrospective status changed",
		"event", "retrospective_status_changed",
		"module", "collaboration/retrospective-service",
		"layer", "application",
		"retrospective_id", result.Retrospective.RetrospectiveID,
		"previous_status", string(result.Previous),
		"new_status", string(result.Current),
		"changed_by", strings.TrimSpace(actorID),
	)
	return result.Retrospective, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
