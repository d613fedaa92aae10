package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"retroboard/contexts/collaboration/voting-engine/domain/entities"
	domainerrors "retroboard/contexts/collaboration/voting-engine/domain/errors"
	"retroboard/contexts/collaboration/voting-engine/ports"

	"github.com/google/uuid"
)

// Store is the in-memory voting repository used by tests and local wiring.
// Retrospective and item projections are seeded through the Set helpers
// since the engine does not own them.
type Store struct {
	mu     sync.RWMutex
	votes  map[string]entities.Vote
	items  map[string]ports.ItemProjection
	retros map[string]ports.RetrospectiveProjection

	failIncrementFor map[string]error
}

func NewStore(seed []entities.Vote) *Store {
	store := &Store{
		votes:            make(map[string]entities.Vote, len(seed)),
		items:            make(map[string]ports.ItemProjection),
		retros:           make(map[string]ports.RetrospectiveProjection),
		failIncrementFor: make(map[string]error),
	}
	for _, vote := range seed {
		store.votes[vote.VoteID] = vote
	}
	return store
}

func (s *Store) SetRetrospective(projection ports.RetrospectiveProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retros[projection.RetrospectiveID] = projection
}

func (s *Store) SetItem(projection ports.ItemProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[projection.ItemID] = projection
}

// FailIncrementFor makes the next IncrementVoteCount on the item fail,
// driving the rollback path in tests.
func (s *Store) FailIncrementFor(itemID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = errors.New("increment failed")
	}
	s.failIncrementFor[itemID] = err
}

func (s *Store) VoteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.votes)
}

func (s *Store) SaveVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[vote.VoteID] = vote
	return nil
}

func (s *Store) DeleteVote(_ context.Context, voteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.votes[strings.TrimSpace(voteID)]; !ok {
		return domainerrors.ErrVoteNotFound
	}
	delete(s.votes, strings.TrimSpace(voteID))
	return nil
}

func (s *Store) GetVoteByUserAndItem(
	_ context.Context,
	retroID string,
	itemID string,
	userID string,
) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, vote := range s.votes {
		if vote.RetrospectiveID == retroID && vote.ItemID == itemID && vote.UserID == userID {
			return vote, true, nil
		}
	}
	return entities.Vote{}, false, nil
}

func (s *Store) CountVotesByUser(_ context.Context, retroID string, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, vote := range s.votes {
		if vote.RetrospectiveID == retroID && vote.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListVotesByUser(_ context.Context, retroID string, userID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []entities.Vote
	for _, vote := range s.votes {
		if vote.RetrospectiveID == retroID && vote.UserID == userID {
			results = append(results, vote)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results, nil
}

func (s *Store) GetItem(_ context.Context, itemID string) (ports.ItemProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[strings.TrimSpace(itemID)]
	if !ok {
		return ports.ItemProjection{}, domainerrors.ErrItemNotFound
	}
	return item, nil
}

func (s *Store) ListItems(_ context.Context, retroID string) ([]ports.ItemProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []ports.ItemProjection
	for _, item := range s.items {
		if item.RetrospectiveID == retroID {
			results = append(results, item)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ItemID < results[j].ItemID
	})
	return results, nil
}

func (s *Store) IncrementVoteCount(_ context.Context, itemID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failIncrementFor[itemID]; ok {
		delete(s.failIncrementFor, itemID)
		return 0, err
	}
	item, ok := s.items[strings.TrimSpace(itemID)]
	if !ok {
		return 0, domainerrors.ErrItemNotFound
	}
	item.VoteCount++
	s.items[item.ItemID] = item
	return item.VoteCount, nil
}

func (s *Store) DecrementVoteCount(_ context.Context, itemID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[strings.TrimSpace(itemID)]
	if !ok {
		return 0, domainerrors.ErrItemNotFound
	}
	if item.VoteCount > 0 {
		item.VoteCount--
	}
	s.items[item.ItemID] = item
	return item.VoteCount, nil
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

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
