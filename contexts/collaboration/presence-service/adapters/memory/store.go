package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"retroboard/contexts/collaboration/presence-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/presence-service/domain/errors"
	"retroboard/contexts/collaboration/presence-service/ports"
)

// Store is the in-memory presence repository used by tests and local wiring.
// Retrospective projections are seeded through SetRetrospective since the
// tracker does not own them.
type Store struct {
	mu           sync.RWMutex
	participants map[string]entities.Participant
	retros       map[string]ports.RetrospectiveProjection
	counts       map[string]int
}

func NewStore(seed []entities.Participant) *Store {
	store := &Store{
		participants: make(map[string]entities.Participant, len(seed)),
		retros:       make(map[string]ports.RetrospectiveProjection),
		counts:       make(map[string]int),
	}
	for _, participant := range seed {
		store.participants[participant.ParticipantID] = participant
	}
	return store
}

func (s *Store) SetRetrospective(projection ports.RetrospectiveProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retros[projection.RetrospectiveID] = projection
}

// ParticipantCount reports the last count persisted for the retrospective.
func (s *Store) ParticipantCount(retroID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[retroID]
}

// RowCount reports how many presence rows exist regardless of online state.
func (s *Store) RowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants)
}

func (s *Store) UpsertParticipant(_ context.Context, participant entities.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[participant.ParticipantID] = participant
	return nil
}

func (s *Store) GetParticipant(_ context.Context, retroID, userID string) (entities.Participant, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	participant, ok := s.participants[entities.ParticipantID(strings.TrimSpace(retroID), strings.TrimSpace(userID))]
	return participant, ok, nil
}

func (s *Store) ListOnlineParticipants(_ context.Context, retroID string) ([]entities.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []entities.Participant
	for _, participant := range s.participants {
		if participant.RetrospectiveID == retroID && participant.IsOnline {
			results = append(results, participant)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].JoinedAt.Equal(results[j].JoinedAt) {
			return results[i].UserID < results[j].UserID
		}
		return results[i].JoinedAt.Before(results[j].JoinedAt)
	})
	return results, nil
}

func (s *Store) MarkStaleOffline(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	marked := 0
	for key, participant := range s.participants {
		if participant.IsOnline && participant.LastActive.Before(cutoff) {
			participant.IsOnline = false
			s.participants[key] = participant
			marked++
		}
	}
	return marked, nil
}

func (s *Store) DeleteExpiredParticipants(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key, participant := range s.participants {
		if participant.LastActive.Before(cutoff) {
			delete(s.participants, key)
			deleted++
		}
	}
	return deleted, nil
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

func (s *Store) SetParticipantCount(_ context.Context, retroID string, count int, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[retroID] = count
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
