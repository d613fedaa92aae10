package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"retroboard/contexts/collaboration/board-service/adapters/memory"
	"retroboard/contexts/collaboration/board-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-service/domain/errors"
	"retroboard/contexts/collaboration/board-service/ports"
	"retroboard/internal/shared/events"
)

func newActionItemService(hub *captureHub) (ActionItemService, *memory.Store) {
	store := memory.NewStore(nil, nil)
	store.SetRetrospective(boardProjection())
	return ActionItemService{
		ActionItems:    store,
		Items:          store,
		Retrospectives: store,
		Hub:            hub,
		Clock:          fixedClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		IDGen:          &sequenceIDGen{prefix: "action"},
	}, store
}

func TestCreateActionItemInheritsRetrospectiveContext(t *testing.T) {
	hub := &captureHub{}
	service, store := newActionItemService(hub)

	actionItem, err := service.Create(context.Background(), CreateActionItemInput{
		RetrospectiveID: "retro-1",
		Description:     "Timebox the standup",
		CreatedBy:       "user-1",
	})
	if err != nil {
		t.Fatalf("create action item: %v", err)
	}
	if actionItem.TeamID != "team-1" {
		t.Fatalf("expected team inherited from retrospective, got %q", actionItem.TeamID)
	}
	if actionItem.SourceSprintName != "Sprint 12" {
		t.Fatalf("expected sprint name inherited, got %q", actionItem.SourceSprintName)
	}
	if actionItem.Status != entities.ActionItemStatusNotStarted {
		t.Fatalf("expected not_started, got %s", actionItem.Status)
	}
	if actionItem.Priority != entities.ActionItemPriorityMedium {
		t.Fatalf("expected default medium priority, got %s", actionItem.Priority)
	}
	if store.ActionItemCount("retro-1") != 1 {
		t.Fatalf("expected counter 1, got %d", store.ActionItemCount("retro-1"))
	}
	if len(hub.broadcasts) != 1 || hub.broadcasts[0].Type != events.TypeActionItemCreated {
		t.Fatalf("expected action_item.created broadcast, got %+v", hub.broadcasts)
	}
}

func TestCreateActionItemRequiresTeamWithoutRetrospective(t *testing.T) {
	service, _ := newActionItemService(&captureHub{})

	_, err := service.Create(context.Background(), CreateActionItemInput{
		Description: "orphan task",
		CreatedBy:   "user-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	actionItem, err := service.Create(context.Background(), CreateActionItemInput{
		TeamID:      "team-2",
		Description: "standalone task",
		CreatedBy:   "user-1",
	})
	if err != nil {
		t.Fatalf("create standalone action item: %v", err)
	}
	if actionItem.TeamID != "team-2" {
		t.Fatalf("expected explicit team, got %q", actionItem.TeamID)
	}
}

func TestCreateActionItemFlagsSourceItem(t *testing.T) {
	service, store := newActionItemService(&captureHub{})
	if err := store.CreateItem(context.Background(), entities.Item{
		ItemID:          "item-1",
		RetrospectiveID: "retro-1",
		ColumnID:        "to-improve",
		Content:         "Standups ran long",
	}); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	_, err := service.Create(context.Background(), CreateActionItemInput{
		RetrospectiveID: "retro-1",
		SourceItemID:    "item-1",
		Description:     "Timebox the standup",
		CreatedBy:       "user-1",
	})
	if err != nil {
		t.Fatalf("create action item: %v", err)
	}
	item, err := store.GetItem(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("get source item: %v", err)
	}
	if !item.HasActionItem {
		t.Fatal("expected source item to be flagged")
	}
}

func TestUpdateActionItemStatus(t *testing.T) {
	service, _ := newActionItemService(&captureHub{})

	created, err := service.Create(context.Background(), CreateActionItemInput{
		RetrospectiveID: "retro-1",
		Description:     "Fix the flaky test",
		CreatedBy:       "user-1",
	})
	if err != nil {
		t.Fatalf("create action item: %v", err)
	}

	updated, err := service.UpdateStatus(context.Background(), created.ActionItemID, entities.ActionItemStatusDone, "merged in #42")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != entities.ActionItemStatusDone {
		t.Fatalf("expected done, got %s", updated.Status)
	}
	if updated.Notes != "merged in #42" {
		t.Fatalf("expected notes to be recorded, got %q", updated.Notes)
	}

	_, err = service.UpdateStatus(context.Background(), created.ActionItemID, entities.ActionItemStatus("unknown"), "")
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected unknown status to be rejected, got %v", err)
	}
}

func TestListActionItemsByTeamHidesCompleted(t *testing.T) {
	service, _ := newActionItemService(&captureHub{})

	open, err := service.Create(context.Background(), CreateActionItemInput{
		TeamID:      "team-1",
		Description: "open task",
		CreatedBy:   "user-1",
	})
	if err != nil {
		t.Fatalf("create open task: %v", err)
	}
	done, err := service.Create(context.Background(), CreateActionItemInput{
		TeamID:      "team-1",
		Description: "finished task",
		CreatedBy:   "user-1",
	})
	if err != nil {
		t.Fatalf("create finished task: %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), done.ActionItemID, entities.ActionItemStatusDone, ""); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	actionItems, err := service.List(context.Background(), ports.ActionItemListFilter{TeamID: "team-1"})
	if err != nil {
		t.Fatalf("list action items: %v", err)
	}
	if len(actionItems) != 1 || actionItems[0].ActionItemID != open.ActionItemID {
		t.Fatalf("expected only the open task, got %+v", actionItems)
	}

	all, err := service.List(context.Background(), ports.ActionItemListFilter{TeamID: "team-1", IncludeCompleted: true})
	if err != nil {
		t.Fatalf("list with completed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both tasks, got %d", len(all))
	}
}

func TestListActionItemsRequiresScope(t *testing.T) {
	service, _ := newActionItemService(&captureHub{})

	_, err := service.List(context.Background(), ports.ActionItemListFilter{})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected missing scope to be rejected, got %v", err)
	}
}
