package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"retroboard/contexts/collaboration/board-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-service/domain/errors"
	"retroboard/contexts/collaboration/board-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory board repository used by tests and local wiring.
// Retrospective projections are seeded through SetRetrospective since the
// board does not own them.
type Store struct {
	mu          sync.RWMutex
	items       map[string]entities.Item
	actionItems map[string]entities.ActionItem
	retros      map[string]ports.RetrospectiveProjection
	itemCounts  map[string]int
	actionCount map[string]int
}

func NewStore(items []entities.Item, actionItems []entities.ActionItem) *Store {
	store := &Store{
		items:       make(map[string]entities.Item, len(items)),
		actionItems: make(map[string]entities.ActionItem, len(actionItems)),
		retros:      make(map[string]ports.RetrospectiveProjection),
		itemCounts:  make(map[string]int),
		actionCount: make(map[string]int),
	}
	for _, item := range items {
		store.items[item.ItemID] = item
	}
	for _, actionItem := range actionItems {
		store.actionItems[actionItem.ActionItemID] = actionItem
	}
	return store
}

// SetRetrospective seeds the projection of an owning retrospective.
func (s *Store) SetRetrospective(projection ports.RetrospectiveProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retros[projection.RetrospectiveID] = projection
}

// ItemCount reports the denormalized counter adjustments applied so far.
func (s *Store) ItemCount(retroID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemCounts[retroID]
}

func (s *Store) ActionItemCount(retroID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actionCount[retroID]
}

func (s *Store) CreateItem(_ context.Context, item entities.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ItemID] = item
	return nil
}

func (s *Store) GetItem(_ context.Context, itemID string) (entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[strings.TrimSpace(itemID)]
	if !ok {
		return entities.Item{}, domainerrors.ErrItemNotFound
	}
	return item, nil
}

func (s *Store) ListItems(_ context.Context, filter ports.ItemListFilter) ([]entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []entities.Item
	for _, item := range s.items {
		if item.RetrospectiveID != filter.RetrospectiveID {
			continue
		}
		if filter.ColumnID != "" && item.ColumnID != filter.ColumnID {
			continue
		}
		results = append(results, item)
	}
	if filter.SortByVotes {
		sort.Slice(results, func(i, j int) bool {
			if results[i].VoteCount == results[j].VoteCount {
				return results[i].Position < results[j].Position
			}
			return results[i].VoteCount > results[j].VoteCount
		})
	} else {
		sort.Slice(results, func(i, j int) bool {
			if results[i].ColumnID == results[j].ColumnID {
				return results[i].Position < results[j].Position
			}
			return results[i].ColumnID < results[j].ColumnID
		})
	}
	return results, nil
}

func (s *Store) UpdateItem(_ context.Context, item entities.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ItemID]; !ok {
		return domainerrors.ErrItemNotFound
	}
	s.items[item.ItemID] = item
	return nil
}

func (s *Store) DeleteItem(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[strings.TrimSpace(itemID)]; !ok {
		return domainerrors.ErrItemNotFound
	}
	delete(s.items, strings.TrimSpace(itemID))
	return nil
}

func (s *Store) CountItemsByColumn(_ context.Context, retroID string, columnID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, item := range s.items {
		if item.RetrospectiveID == retroID && item.ColumnID == columnID {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateActionItem(_ context.Context, actionItem entities.ActionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionItems[actionItem.ActionItemID] = actionItem
	return nil
}

func (s *Store) GetActionItem(_ context.Context, actionItemID string) (entities.ActionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actionItem, ok := s.actionItems[strings.TrimSpace(actionItemID)]
	if !ok {
		return entities.ActionItem{}, domainerrors.ErrActionItemNotFound
	}
	return actionItem, nil
}

func (s *Store) ListActionItems(_ context.Context, filter ports.ActionItemListFilter) ([]entities.ActionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []entities.ActionItem
	for _, actionItem := range s.actionItems {
		if filter.RetrospectiveID != "" && actionItem.RetrospectiveID != filter.RetrospectiveID {
			continue
		}
		if filter.TeamID != "" && actionItem.TeamID != filter.TeamID {
			continue
		}
		if filter.AssigneeID != "" && actionItem.AssigneeID != filter.AssigneeID {
			continue
		}
		if filter.RetrospectiveID == "" && !filter.IncludeCompleted && actionItem.Status.IsTerminal() {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, actionItem.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, actionItem.Priority) {
			continue
		}
		results = append(results, actionItem)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ActionItemID < results[j].ActionItemID
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results, nil
}

func (s *Store) UpdateActionItem(_ context.Context, actionItem entities.ActionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actionItems[actionItem.ActionItemID]; !ok {
		return domainerrors.ErrActionItemNotFound
	}
	s.actionItems[actionItem.ActionItemID] = actionItem
	return nil
}

func (s *Store) DeleteActionItem(_ context.Context, actionItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actionItems[strings.TrimSpace(actionItemID)]; !ok {
		return domainerrors.ErrActionItemNotFound
	}
	delete(s.actionItems, strings.TrimSpace(actionItemID))
	return nil
}

func (s *Store) GetRetrospective(_ context.Context, retroID string) (ports.RetrospectiveProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projection, ok := s.retros[strings.TrimSpace(retroID)]
	if !ok {
		return ports.RetrospectiveProjection{}, domainerrors.ErrRetrospectiveNotFound
	}
	return projection, nil
}

func (s *Store) AdjustItemCount(_ context.Context, retroID string, delta int, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.retros[retroID]; !ok {
		return domainerrors.ErrRetrospectiveNotFound
	}
	s.itemCounts[retroID] += delta
	if s.itemCounts[retroID] < 0 {
		s.itemCounts[retroID] = 0
	}
	return nil
}

func (s *Store) AdjustActionItemCount(_ context.Context, retroID string, delta int, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.retros[retroID]; !ok {
		return domainerrors.ErrRetrospectiveNotFound
	}
	s.actionCount[retroID] += delta
	if s.actionCount[retroID] < 0 {
		s.actionCount[retroID] = 0
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func containsStatus(statuses []entities.ActionItemStatus, status entities.ActionItemStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsPriority(priorities []entities.ActionItemPriority, priority entities.ActionItemPriority) bool {
	for _, candidate := range priorities {
		if candidate == priority {
			return true
		}
	}
	return false
}
