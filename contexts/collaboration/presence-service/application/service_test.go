package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"retroboard/contexts/collaboration/presence-service/adapters/memory"
	domainerrors "retroboard/contexts/collaboration/presence-service/domain/errors"
	"retroboard/contexts/collaboration/presence-service/ports"
	"retroboard/internal/shared/events"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type captureHub struct {
	broadcasts []events.Event
}

func (h *captureHub) Broadcast(_ string, event events.Event) {
	h.broadcasts = append(h.broadcasts, event)
}

func newPresenceService(hub *captureHub) (Service, *memory.Store) {
	store := memory.NewStore(nil)
	store.SetRetrospective(ports.RetrospectiveProjection{
		RetrospectiveID: "retro-1",
		FacilitatorID:   "user-fac",
	})
	return Service{
		Participants:   store,
		Retrospectives: store,
		Hub:            hub,
		Clock:          fixedClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
	}, store
}

func TestJoinCreatesOnlineParticipant(t *testing.T) {
	hub := &captureHub{}
	service, store := newPresenceService(hub)

	result, err := service.Join(context.Background(), JoinInput{
		RetrospectiveID: "retro-1",
		UserID:          "user-1",
		DisplayName:     "Dana",
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !result.Current.IsOnline || result.Current.Role != "member" {
		t.Fatalf("unexpected participant %+v", result.Current)
	}
	if result.Current.ParticipantID != "retro-1:user-1" {
		t.Fatalf("unexpected composite key %q", result.Current.ParticipantID)
	}
	if len(result.Participants) != 1 {
		t.Fatalf("expected 1 live participant, got %d", len(result.Participants))
	}
	if store.ParticipantCount("retro-1") != 1 {
		t.Fatalf("expected persisted count 1, got %d", store.ParticipantCount("retro-1"))
	}
	if len(hub.broadcasts) != 1 || hub.broadcasts[0].ParticipantJoined == nil {
		t.Fatalf("expected participant.joined broadcast, got %+v", hub.broadcasts)
	}
	if hub.broadcasts[0].ParticipantJoined.ParticipantCount != 1 {
		t.Fatalf("expected count 1 in event, got %d", hub.broadcasts[0].ParticipantJoined.ParticipantCount)
	}
}

func TestJoinAssignsFacilitatorRole(t *testing.T) {
	service, _ := newPresenceService(&captureHub{})

	result, err := service.Join(context.Background(), JoinInput{
		RetrospectiveID: "retro-1",
		UserID:          "user-fac",
		DisplayName:     "Fay",
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if result.Current.Role != "facilitator" {
		t.Fatalf("expected facilitator role, got %s", result.Current.Role)
	}
}

func TestJoinCountsOnlineParticipantsOnly(t *testing.T) {
	service, store := newPresenceService(&captureHub{})

	for _, userID := range []string{"user-1", "user-2", "user-3"} {
		if _, err := service.Join(context.Background(), JoinInput{
			RetrospectiveID: "retro-1",
			UserID:          userID,
			DisplayName:     userID,
		}); err != nil {
			t.Fatalf("join %s: %v", userID, err)
		}
	}
	if err := service.Leave(context.Background(), "retro-1", "user-2"); err != nil {
		t.Fatalf("leave: %v", err)
	}

	online, err := service.List(context.Background(), "retro-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(online) != 2 {
		t.Fatalf("expected 2 online, got %d", len(online))
	}
	if store.ParticipantCount("retro-1") != 2 {
		t.Fatalf("expected persisted count 2, got %d", store.ParticipantCount("retro-1"))
	}
	if store.RowCount() != 3 {
		t.Fatalf("leave must not delete rows, have %d", store.RowCount())
	}
}

func TestRejoinRevivesExistingRecord(t *testing.T) {
	service, _ := newPresenceService(&captureHub{})

	first, err := service.Join(context.Background(), JoinInput{
		RetrospectiveID: "retro-1",
		UserID:          "user-1",
		DisplayName:     "Dana",
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := service.Leave(context.Background(), "retro-1", "user-1"); err != nil {
		t.Fatalf("leave: %v", err)
	}

	second, err := service.Join(context.Background(), JoinInput{
		RetrospectiveID: "retro-1",
		UserID:          "user-1",
	})
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if !second.Current.IsOnline {
		t.Fatal("rejoin must flip the record back online")
	}
	if !second.Current.JoinedAt.Equal(first.Current.JoinedAt) {
		t.Fatalf("rejoin must keep the original join time, got %v", second.Current.JoinedAt)
	}
	if second.Current.DisplayName != "Dana" {
		t.Fatalf("rejoin without a name must keep the stored one, got %q", second.Current.DisplayName)
	}
}

func TestSecondLeaveIsNoOp(t *testing.T) {
	hub := &captureHub{}
	service, _ := newPresenceService(hub)

	if _, err := service.Join(context.Background(), JoinInput{
		RetrospectiveID: "retro-1",
		UserID:          "user-1",
		DisplayName:     "Dana",
	}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := service.Leave(context.Background(), "retro-1", "user-1"); err != nil {
		t.Fatalf("first leave: %v", err)
	}
	before := len(hub.broadcasts)
	if err := service.Leave(context.Background(), "retro-1", "user-1"); err != nil {
		t.Fatalf("second leave: %v", err)
	}
	if len(hub.broadcasts) != before {
		t.Fatal("second leave must not broadcast")
	}
}

func TestHeartbeatRevivesAndIgnoresUntracked(t *testing.T) {
	service, store := newPresenceService(&captureHub{})

	if _, err := service.Join(context.Background(), JoinInput{
		RetrospectiveID: "retro-1",
		UserID:          "user-1",
		DisplayName:     "Dana",
	}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := service.Leave(context.Background(), "retro-1", "user-1"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if err := service.Heartbeat(context.Background(), "retro-1", "user-1"); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	participant, found, err := store.GetParticipant(context.Background(), "retro-1", "user-1")
	if err != nil || !found {
		t.Fatalf("get participant: found=%v err=%v", found, err)
	}
	if !participant.IsOnline {
		t.Fatal("heartbeat must re-assert the online flag")
	}

	// Untracked users succeed silently.
	if err := service.Heartbeat(context.Background(), "retro-1", "user-ghost"); err != nil {
		t.Fatalf("heartbeat untracked: %v", err)
	}
}

func TestJoinUnknownRetrospective(t *testing.T) {
	service, _ := newPresenceService(&captureHub{})

	_, err := service.Join(context.Background(), JoinInput{
		RetrospectiveID: "retro-missing",
		UserID:          "user-1",
	})
	if !errors.Is(err, domainerrors.ErrRetrospectiveNotFound) {
		t.Fatalf("expected ErrRetrospectiveNotFound, got %v", err)
	}
}
