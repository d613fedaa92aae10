package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"retroboard/contexts/collaboration/board-service/adapters/memory"
	"retroboard/contexts/collaboration/board-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-service/domain/errors"
	"retroboard/contexts/collaboration/board-service/ports"
	"retroboard/internal/shared/events"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type sequenceIDGen struct {
	prefix string
	next   int
}

func (g *sequenceIDGen) NewID(_ context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next), nil
}

type captureHub struct {
	broadcasts []events.Event
}

func (h *captureHub) Broadcast(_ string, event events.Event) {
	h.broadcasts = append(h.broadcasts, event)
}

func boardProjection() ports.RetrospectiveProjection {
	return ports.RetrospectiveProjection{
		RetrospectiveID: "retro-1",
		TeamID:          "team-1",
		SprintName:      "Sprint 12",
		Status:          "active",
		ColumnIDs:       []string{"went-well", "to-improve"},
	}
}

func newItemService(hub *captureHub) (ItemService, *memory.Store) {
	store := memory.NewStore(nil, nil)
	store.SetRetrospective(boardProjection())
	return ItemService{
		Items:          store,
		Retrospectives: store,
		Hub:            hub,
		Clock:          fixedClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		IDGen:          &sequenceIDGen{prefix: "item"},
	}, store
}

func TestCreateItemAppendsPositionPerColumn(t *testing.T) {
	service, _ := newItemService(&captureHub{})

	first, err := service.Create(context.Background(), CreateItemInput{
		RetrospectiveID: "retro-1",
		ColumnID:        "went-well",
		Content:         "CI stayed green",
		CreatedBy:       "user-1",
		CreatedByName:   "Dana",
	})
	if err != nil {
		t.Fatalf("create first item: %v", err)
	}
	second, err := service.Create(context.Background(), CreateItemInput{
		RetrospectiveID: "retro-1",
		ColumnID:        "went-well",
		Content:         "Pairing worked",
		CreatedBy:       "user-2",
		CreatedByName:   "Sam",
	})
	if err != nil {
		t.Fatalf("create second item: %v", err)
	}
	other, err := service.Create(context.Background(), CreateItemInput{
		RetrospectiveID: "retro-1",
		ColumnID:        "to-improve",
		Content:         "Standups ran long",
		CreatedBy:       "user-1",
		CreatedByName:   "Dana",
	})
	if err != nil {
		t.Fatalf("create item in second column: %v", err)
	}

	if first.Position != 0 || second.Position != 1 {
		t.Fatalf("expected positions 0 and 1 in the same column, got %d and %d", first.Position, second.Position)
	}
	if other.Position != 0 {
		t.Fatalf("expected position 0 in a fresh column, got %d", other.Position)
	}
}

func TestCreateItemRejectsUnknownColumn(t *testing.T) {
	service, store := newItemService(&captureHub{})

	_, err := service.Create(context.Background(), CreateItemInput{
		RetrospectiveID: "retro-1",
		ColumnID:        "nope",
		Content:         "orphan",
		CreatedBy:       "user-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if store.ItemCount("retro-1") != 0 {
		t.Fatalf("expected no counter change on rejected create, got %d", store.ItemCount("retro-1"))
	}
}

func TestAnonymousItemHidesAuthorInEvent(t *testing.T) {
	hub := &captureHub{}
	service, _ := newItemService(hub)

	item, err := service.Create(context.Background(), CreateItemInput{
		RetrospectiveID: "retro-1",
		ColumnID:        "to-improve",
		Content:         "Too many meetings",
		CreatedBy:       "user-1",
		CreatedByName:   "Dana",
		IsAnonymous:     true,
	})
	if err != nil {
		t.Fatalf("create anonymous item: %v", err)
	}
	if item.CreatedByName != "Anonymous" {
		t.Fatalf("expected anonymous author name, got %q", item.CreatedByName)
	}
	if len(hub.broadcasts) != 1 || hub.broadcasts[0].ItemCreated == nil {
		t.Fatalf("expected one item.created broadcast, got %+v", hub.broadcasts)
	}
	payload := hub.broadcasts[0].ItemCreated
	if payload.CreatedBy != "" || payload.CreatedByName != "" {
		t.Fatalf("anonymous event leaked the author: %+v", payload)
	}
}

func TestDeleteItemAdjustsCounterAndBroadcasts(t *testing.T) {
	hub := &captureHub{}
	service, store := newItemService(hub)

	item, err := service.Create(context.Background(), CreateItemInput{
		RetrospectiveID: "retro-1",
		ColumnID:        "went-well",
		Content:         "Release shipped on time",
		CreatedBy:       "user-1",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if store.ItemCount("retro-1") != 1 {
		t.Fatalf("expected counter 1 after create, got %d", store.ItemCount("retro-1"))
	}

	if err := service.Delete(context.Background(), "retro-1", item.ItemID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if store.ItemCount("retro-1") != 0 {
		t.Fatalf("expected counter back to 0, got %d", store.ItemCount("retro-1"))
	}

	last := hub.broadcasts[len(hub.broadcasts)-1]
	if last.Type != events.TypeItemDeleted || last.ItemDeleted == nil {
		t.Fatalf("expected item.deleted broadcast, got %+v", last)
	}
	if last.ItemDeleted.ItemID != item.ItemID {
		t.Fatalf("expected deleted item %s, got %s", item.ItemID, last.ItemDeleted.ItemID)
	}
}

func TestDeleteItemFromWrongRetrospective(t *testing.T) {
	service, _ := newItemService(&captureHub{})

	item, err := service.Create(context.Background(), CreateItemInput{
		RetrospectiveID: "retro-1",
		ColumnID:        "went-well",
		Content:         "keep",
		CreatedBy:       "user-1",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	err = service.Delete(context.Background(), "retro-other", item.ItemID)
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ownership check to fail, got %v", err)
	}
}

func TestMoveItemValidatesTargetColumn(t *testing.T) {
	service, _ := newItemService(&captureHub{})

	item, err := service.Create(context.Background(), CreateItemInput{
		RetrospectiveID: "retro-1",
		ColumnID:        "went-well",
		Content:         "move me",
		CreatedBy:       "user-1",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	moved, err := service.MoveToColumn(context.Background(), "retro-1", item.ItemID, "to-improve", 3)
	if err != nil {
		t.Fatalf("move item: %v", err)
	}
	if moved.ColumnID != "to-improve" || moved.Position != 3 {
		t.Fatalf("unexpected column/position after move: %s/%d", moved.ColumnID, moved.Position)
	}

	_, err = service.MoveToColumn(context.Background(), "retro-1", item.ItemID, "nowhere", 0)
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected unknown target column to be rejected, got %v", err)
	}
}

func TestListItemsSortsByVotes(t *testing.T) {
	store := memory.NewStore([]entities.Item{
		{ItemID: "item-1", RetrospectiveID: "retro-1", ColumnID: "went-well", Content: "a", VoteCount: 1, Position: 0},
		{ItemID: "item-2", RetrospectiveID: "retro-1", ColumnID: "went-well", Content: "b", VoteCount: 4, Position: 1},
		{ItemID: "item-3", RetrospectiveID: "retro-1", ColumnID: "to-improve", Content: "c", VoteCount: 2, Position: 0},
	}, nil)
	store.SetRetrospective(boardProjection())
	service := ItemService{Items: store, Retrospectives: store, Hub: &captureHub{}}

	items, err := service.List(context.Background(), ports.ItemListFilter{
		RetrospectiveID: "retro-1",
		SortByVotes:     true,
	})
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ItemID != "item-2" || items[1].ItemID != "item-3" || items[2].ItemID != "item-1" {
		t.Fatalf("unexpected vote ordering: %s, %s, %s", items[0].ItemID, items[1].ItemID, items[2].ItemID)
	}
}
