package workers

import (
	"context"
	"testing"
	"time"

	"retroboard/contexts/collaboration/presence-service/adapters/memory"
	"retroboard/contexts/collaboration/presence-service/domain/entities"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func seedParticipant(userID string, lastActive time.Time, online bool) entities.Participant {
	return entities.Participant{
		ParticipantID:   entities.ParticipantID("retro-1", userID),
		RetrospectiveID: "retro-1",
		UserID:          userID,
		DisplayName:     userID,
		Role:            entities.RoleMember,
		IsOnline:        online,
		JoinedAt:        lastActive,
		LastActive:      lastActive,
	}
}

func TestRunOnceMarksStaleParticipantsOffline(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Participant{
		seedParticipant("user-fresh", now.Add(-30*time.Second), true),
		seedParticipant("user-stale", now.Add(-5*time.Minute), true),
	})
	expirer := PresenceExpirer{
		Participants:  store,
		Clock:         fixedClock{now: now},
		OnlineTimeout: 2 * time.Minute,
		TTL:           24 * time.Hour,
	}

	if err := expirer.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}

	online, err := store.ListOnlineParticipants(context.Background(), "retro-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(online) != 1 || online[0].UserID != "user-fresh" {
		t.Fatalf("expected only user-fresh online, got %+v", online)
	}
	if store.RowCount() != 2 {
		t.Fatalf("offline sweep must not delete rows, have %d", store.RowCount())
	}
}

func TestRunOnceDeletesRowsPastTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Participant{
		seedParticipant("user-recent", now.Add(-1*time.Hour), false),
		seedParticipant("user-ancient", now.Add(-25*time.Hour), false),
	})
	expirer := PresenceExpirer{
		Participants:  store,
		Clock:         fixedClock{now: now},
		OnlineTimeout: 2 * time.Minute,
		TTL:           24 * time.Hour,
	}

	if err := expirer.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if store.RowCount() != 1 {
		t.Fatalf("expected 1 row after expiry, got %d", store.RowCount())
	}
	if _, found, _ := store.GetParticipant(context.Background(), "retro-1", "user-ancient"); found {
		t.Fatal("expected the ancient row to be deleted")
	}
}
