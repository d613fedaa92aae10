package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"retroboard/contexts/collaboration/retrospective-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/retrospective-service/domain/errors"
	"retroboard/contexts/collaboration/retrospective-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory repository used by tests and local wiring. The
// status transition runs under the write lock, which makes the
// check-then-set linearizable the same way the postgres adapter's row lock
// does.
type Store struct {
	mu     sync.RWMutex
	retros map[string]entities.Retrospective
}

func NewStore(seed []entities.Retrospective) *Store {
	retros := make(map[string]entities.Retrospective, len(seed))
	for _, retro := range seed {
		retros[retro.RetrospectiveID] = retro
	}
	return &Store{retros: retros}
}

func (s *Store) Create(_ context.Context, retro entities.Retrospective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retros[retro.RetrospectiveID] = retro
	return nil
}

func (s *Store) Get(_ context.Context, retroID string) (entities.Retrospective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	retro, ok := s.retros[strings.TrimSpace(retroID)]
	if !ok {
		return entities.Retrospective{}, domainerrors.ErrRetrospectiveNotFound
	}
	return retro, nil
}

func (s *Store) List(_ context.Context, filter ports.ListFilter) ([]entities.Retrospective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []entities.Retrospective
	for _, retro := range s.retros {
		if filter.TeamID != "" && retro.TeamID != filter.TeamID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, retro.Status) {
			continue
		}
		results = append(results, retro)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].RetrospectiveID < results[j].RetrospectiveID
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if filter.Limit > 0 && len(results) > filter.Limit {
		results = results[:filter.Limit]
	}
	return results, nil
}

func (s *Store) Update(_ context.Context, retro entities.Retrospective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.retros[retro.RetrospectiveID]; !ok {
		return domainerrors.ErrRetrospectiveNotFound
	}
	s.retros[retro.RetrospectiveID] = retro
	return nil
}

func (s *Store) Delete(_ context.Context, retroID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.retros[strings.TrimSpace(retroID)]; !ok {
		return domainerrors.ErrRetrospectiveNotFound
	}
	delete(s.retros, strings.TrimSpace(retroID))
	return nil
}

func (s *Store) TransitionStatus(
	_ context.Context,
	retroID string,
	from []entities.Status,
	to entities.Status,
	now time.Time,
) (ports.StatusTransition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	retro, ok := s.retros[strings.TrimSpace(retroID)]
	if !ok {
		return ports.StatusTransition{}, domainerrors.ErrRetrospectiveNotFound
	}
	if !containsStatus(from, retro.Status) {
		return ports.StatusTransition{}, domainerrors.ErrInvalidStatus
	}

	previous := retro.Status
	retro.Status = to
	retro.UpdatedAt = now
	switch to {
	case entities.StatusActive:
		started := now
		retro.StartedAt = &started
	case entities.StatusCompleted:
		completed := now
		retro.CompletedAt = &completed
	}
	s.retros[retro.RetrospectiveID] = retro

	return ports.StatusTransition{
		Previous:      previous,
		Current:       to,
		Retrospective: retro,
	}, nil
}

func (s *Store) AdjustItemCount(_ context.Context, retroID string, delta int, now time.Time) error {
	return s.adjust(retroID, now, func(retro *entities.Retrospective) {
		retro.ItemCount += delta
		if retro.ItemCount < 0 {
			retro.ItemCount = 0
		}
	})
}

func (s *Store) AdjustActionItemCount(_ context.Context, retroID string, delta int, now time.Time) error {
	return s.adjust(retroID, now, func(retro *entities.Retrospective) {
		retro.ActionItemCount += delta
		if retro.ActionItemCount < 0 {
			retro.ActionItemCount = 0
		}
	})
}

func (s *Store) SetParticipantCount(_ context.Context, retroID string, count int, now time.Time) error {
	return s.adjust(retroID, now, func(retro *entities.Retrospective) {
		retro.ParticipantCount = count
	})
}

func (s *Store) adjust(retroID string, now time.Time, apply func(*entities.Retrospective)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	retro, ok := s.retros[strings.TrimSpace(retroID)]
	if !ok {
		return domainerrors.ErrRetrospectiveNotFound
	}
	apply(&retro)
	retro.UpdatedAt = now
	s.retros[retro.RetrospectiveID] = retro
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func containsStatus(statuses []entities.Status, status entities.Status) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}
