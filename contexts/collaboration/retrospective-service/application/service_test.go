package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"retroboard/contexts/collaboration/retrospective-service/adapters/memory"
	"retroboard/contexts/collaboration/retrospective-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/retrospective-service/domain/errors"
	"retroboard/internal/shared/events"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type sequenceIDGen struct {
	next int
}

func (g *sequenceIDGen) NewID(_ context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("retro-%d", g.next), nil
}

type captureHub struct {
	broadcasts []events.Event
}

func (h *captureHub) Broadcast(_ string, event events.Event) {
	h.broadcasts = append(h.broadcasts, event)
}

func newTestService(seed []entities.Retrospective, hub *captureHub) (Service, *memory.Store) {
	store := memory.NewStore(seed)
	return Service{
		Repo:  store,
		Hub:   hub,
		Clock: fixedClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		IDGen: &sequenceIDGen{},
	}, store
}

func seedRetro(id string, status entities.Status) entities.Retrospective {
	return entities.Retrospective{
		RetrospectiveID: id,
		TeamID:          "team-1",
		TeamName:        "Platform",
		SprintName:      "Sprint 12",
		TemplateType:    entities.TemplateWentWellToImprove,
		Columns:         entities.DefaultColumns(entities.TemplateWentWellToImprove),
		VotingConfig:    entities.VotingConfig{MaxVotesPerUser: 5},
		Status:          status,
		CreatedBy:       "user-1",
		FacilitatorID:   "user-1",
		CreatedAt:       time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	service, _ := newTestService(nil, &captureHub{})

	retro, err := service.Create(context.Background(), CreateInput{
		TeamID:     "team-1",
		TeamName:   "Platform",
		SprintName: "Sprint 12",
		CreatedBy:  "user-1",
	})
	if err != nil {
		t.Fatalf("create retrospective: %v", err)
	}
	if retro.Status != entities.StatusDraft {
		t.Fatalf("expected draft status, got %s", retro.Status)
	}
	if retro.TemplateType != entities.TemplateWentWellToImprove {
		t.Fatalf("expected default template, got %s", retro.TemplateType)
	}
	if len(retro.Columns) == 0 {
		t.Fatal("expected template columns to be populated")
	}
	if retro.VotingConfig.MaxVotesPerUser != 5 {
		t.Fatalf("expected default vote limit 5, got %d", retro.VotingConfig.MaxVotesPerUser)
	}
	if retro.VotingConfig.AllowMultipleVotesPerItem {
		t.Fatal("expected multiple votes per item to default off")
	}
	if retro.FacilitatorID != "user-1" {
		t.Fatalf("expected facilitator to default to creator, got %q", retro.FacilitatorID)
	}
}

func TestCreateCustomTemplateRequiresColumns(t *testing.T) {
	service, _ := newTestService(nil, &captureHub{})

	_, err := service.Create(context.Background(), CreateInput{
		TeamID:       "team-1",
		SprintName:   "Sprint 12",
		CreatedBy:    "user-1",
		TemplateType: entities.TemplateCustom,
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestActivateFromDraftRecordsStartAndBroadcasts(t *testing.T) {
	hub := &captureHub{}
	service, _ := newTestService([]entities.Retrospective{seedRetro("retro-1", entities.StatusDraft)}, hub)

	retro, err := service.Activate(context.Background(), "retro-1", "user-1")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if retro.Status != entities.StatusActive {
		t.Fatalf("expected active, got %s", retro.Status)
	}
	if retro.StartedAt == nil {
		t.Fatal("expected started_at to be recorded")
	}
	if len(hub.broadcasts) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(hub.broadcasts))
	}
	change := hub.broadcasts[0].StatusChanged
	if change == nil {
		t.Fatal("expected a status change payload")
	}
	if change.PreviousStatus != string(entities.StatusDraft) || change.NewStatus != string(entities.StatusActive) {
		t.Fatalf("unexpected transition payload %+v", change)
	}
	if change.ChangedBy != "user-1" {
		t.Fatalf("expected actor user-1, got %q", change.ChangedBy)
	}
}

func TestStartDiscussionFromDraftIsRejected(t *testing.T) {
	hub := &captureHub{}
	service, store := newTestService([]entities.Retrospective{seedRetro("retro-1", entities.StatusDraft)}, hub)

	_, err := service.StartDiscussion(context.Background(), "retro-1", "user-1")
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if len(hub.broadcasts) != 0 {
		t.Fatalf("expected no broadcast on rejected transition, got %d", len(hub.broadcasts))
	}
	current, err := store.Get(context.Background(), "retro-1")
	if err != nil {
		t.Fatalf("get retrospective: %v", err)
	}
	if current.Status != entities.StatusDraft {
		t.Fatalf("expected status to stay draft, got %s", current.Status)
	}
}

func TestStartVotingFromActiveThenAgainFails(t *testing.T) {
	service, _ := newTestService([]entities.Retrospective{seedRetro("retro-1", entities.StatusActive)}, &captureHub{})

	retro, err := service.StartVoting(context.Background(), "retro-1", "user-1")
	if err != nil {
		t.Fatalf("start voting: %v", err)
	}
	if retro.Status != entities.StatusVoting {
		t.Fatalf("expected voting, got %s", retro.Status)
	}

	_, err = service.StartVoting(context.Background(), "retro-1", "user-1")
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus on repeated start, got %v", err)
	}
}

func TestCompleteFromDiscussingRecordsCompletion(t *testing.T) {
	service, _ := newTestService([]entities.Retrospective{seedRetro("retro-1", entities.StatusDiscussing)}, &captureHub{})

	retro, err := service.Complete(context.Background(), "retro-1", "user-1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if retro.Status != entities.StatusCompleted {
		t.Fatalf("expected completed, got %s", retro.Status)
	}
	if retro.CompletedAt == nil {
		t.Fatal("expected completed_at to be recorded")
	}

	_, err = service.Activate(context.Background(), "retro-1", "user-1")
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected completed retrospective to be terminal, got %v", err)
	}
}

func TestUpdatePatchSemantics(t *testing.T) {
	service, _ := newTestService([]entities.Retrospective{seedRetro("retro-1", entities.StatusDraft)}, &captureHub{})

	empty := ""
	name := "Sprint 12 (final)"
	retro, err := service.Update(context.Background(), "retro-1", Patch{
		SprintName:  &name,
		Description: &empty,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if retro.SprintName != name {
		t.Fatalf("expected sprint name update, got %q", retro.SprintName)
	}
	if retro.Description != "" {
		t.Fatalf("expected description cleared, got %q", retro.Description)
	}

	_, err = service.Update(context.Background(), "retro-1", Patch{SprintName: &empty})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected empty sprint name to be rejected, got %v", err)
	}
}

func TestGetUnknownRetrospective(t *testing.T) {
	service, _ := newTestService(nil, &captureHub{})

	_, err := service.Get(context.Background(), "missing")
	if !errors.Is(err, domainerrors.ErrRetrospectiveNotFound) {
		t.Fatalf("expected ErrRetrospectiveNotFound, got %v", err)
	}
}
