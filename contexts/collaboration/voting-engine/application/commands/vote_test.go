package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"retroboard/contexts/collaboration/voting-engine/adapters/memory"
	domainerrors "retroboard/contexts/collaboration/voting-engine/domain/errors"
	"retroboard/contexts/collaboration/voting-engine/ports"
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
	return fmt.Sprintf("vote-%d", g.next), nil
}

type captureHub struct {
	broadcasts []events.Event
}

func (h *captureHub) Broadcast(_ string, event events.Event) {
	h.broadcasts = append(h.broadcasts, event)
}

func newVoteUseCase(hub *captureHub) (VoteUseCase, *memory.Store) {
	store := memory.NewStore(nil)
	store.SetRetrospective(ports.RetrospectiveProjection{
		RetrospectiveID: "retro-1",
		Status:          "voting",
		MaxVotesPerUser: 3,
	})
	store.SetItem(ports.ItemProjection{ItemID: "item-1", RetrospectiveID: "retro-1"})
	store.SetItem(ports.ItemProjection{ItemID: "item-2", RetrospectiveID: "retro-1"})
	store.SetItem(ports.ItemProjection{ItemID: "item-3", RetrospectiveID: "retro-1"})
	store.SetItem(ports.ItemProjection{ItemID: "item-4", RetrospectiveID: "retro-1"})
	return VoteUseCase{
		Votes:          store,
		Items:          store,
		Retrospectives: store,
		Hub:            hub,
		Clock:          fixedClock{now: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)},
		IDGen:          &sequenceIDGen{},
	}, store
}

func TestCastVoteIncrementsCounterAndBroadcasts(t *testing.T) {
	hub := &captureHub{}
	useCase, _ := newVoteUseCase(hub)

	result, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	})
	if err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if result.NewVoteCount != 1 {
		t.Fatalf("expected counter 1, got %d", result.NewVoteCount)
	}
	if len(hub.broadcasts) != 1 || hub.broadcasts[0].VoteCast == nil {
		t.Fatalf("expected vote.cast broadcast, got %+v", hub.broadcasts)
	}
	change := hub.broadcasts[0].VoteCast
	if change.ItemID != "item-1" || change.NewVoteCount != 1 || change.UserID != "user-1" {
		t.Fatalf("unexpected vote.cast payload %+v", change)
	}
}

func TestCastVoteRejectsDuplicateOnSameItem(t *testing.T) {
	useCase, store := newVoteUseCase(&captureHub{})

	if _, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	}); err != nil {
		t.Fatalf("first cast: %v", err)
	}
	_, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	item, getErr := store.GetItem(context.Background(), "item-1")
	if getErr != nil {
		t.Fatalf("get item: %v", getErr)
	}
	if item.VoteCount != 1 {
		t.Fatalf("expected counter to stay at 1, got %d", item.VoteCount)
	}
}

func TestCastVoteAllowsDuplicatesWhenConfigured(t *testing.T) {
	useCase, store := newVoteUseCase(&captureHub{})
	store.SetRetrospective(ports.RetrospectiveProjection{
		RetrospectiveID:           "retro-1",
		Status:                    "voting",
		MaxVotesPerUser:           3,
		AllowMultipleVotesPerItem: true,
	})

	for i := 0; i < 2; i++ {
		if _, err := useCase.CastVote(context.Background(), CastVoteCommand{
			RetrospectiveID: "retro-1",
			ItemID:          "item-1",
			UserID:          "user-1",
		}); err != nil {
			t.Fatalf("cast %d: %v", i+1, err)
		}
	}
	item, err := store.GetItem(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.VoteCount != 2 {
		t.Fatalf("expected counter 2 with stacking allowed, got %d", item.VoteCount)
	}
}

func TestCastVoteEnforcesBudget(t *testing.T) {
	useCase, store := newVoteUseCase(&captureHub{})

	for i, itemID := range []string{"item-1", "item-2", "item-3"} {
		if _, err := useCase.CastVote(context.Background(), CastVoteCommand{
			RetrospectiveID: "retro-1",
			ItemID:          itemID,
			UserID:          "user-1",
		}); err != nil {
			t.Fatalf("cast %d: %v", i+1, err)
		}
	}
	_, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-4",
		UserID:          "user-1",
	})
	if !errors.Is(err, domainerrors.ErrVoteLimitExceeded) {
		t.Fatalf("expected ErrVoteLimitExceeded, got %v", err)
	}
	item, getErr := store.GetItem(context.Background(), "item-4")
	if getErr != nil {
		t.Fatalf("get item: %v", getErr)
	}
	if item.VoteCount != 0 {
		t.Fatalf("expected rejected cast to leave counter at 0, got %d", item.VoteCount)
	}
}

func TestCastVoteGateRejectsNonVotingPhases(t *testing.T) {
	useCase, store := newVoteUseCase(&captureHub{})
	for _, status := range []string{"draft", "discussing", "completed"} {
		store.SetRetrospective(ports.RetrospectiveProjection{
			RetrospectiveID: "retro-1",
			Status:          status,
			MaxVotesPerUser: 3,
		})
		_, err := useCase.CastVote(context.Background(), CastVoteCommand{
			RetrospectiveID: "retro-1",
			ItemID:          "item-1",
			UserID:          "user-1",
		})
		if !errors.Is(err, domainerrors.ErrVotingClosed) {
			t.Fatalf("status %s: expected ErrVotingClosed, got %v", status, err)
		}
	}
}

func TestCastVoteRollsBackOnCounterFailure(t *testing.T) {
	hub := &captureHub{}
	useCase, store := newVoteUseCase(hub)
	store.FailIncrementFor("item-1", errors.New("connection reset"))

	_, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	})
	if err == nil {
		t.Fatal("expected the cast to fail")
	}
	if store.VoteCount() != 0 {
		t.Fatalf("expected the vote to be rolled back, found %d votes", store.VoteCount())
	}
	if len(hub.broadcasts) != 0 {
		t.Fatalf("expected no broadcast on failed cast, got %d", len(hub.broadcasts))
	}

	// The user's budget is intact after the rollback.
	if _, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	}); err != nil {
		t.Fatalf("cast after rollback: %v", err)
	}
}

func TestRemoveVoteRestoresBudgetAndCounter(t *testing.T) {
	hub := &captureHub{}
	useCase, store := newVoteUseCase(hub)

	if _, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	result, err := useCase.RemoveVote(context.Background(), RemoveVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if result.NewVoteCount != 0 {
		t.Fatalf("expected counter back to 0, got %d", result.NewVoteCount)
	}
	if store.VoteCount() != 0 {
		t.Fatalf("expected no votes left, got %d", store.VoteCount())
	}
	last := hub.broadcasts[len(hub.broadcasts)-1]
	if last.Type != events.TypeVoteRemoved || last.VoteRemoved == nil {
		t.Fatalf("expected vote.removed broadcast, got %+v", last)
	}

	// The freed budget can be spent again.
	if _, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	}); err != nil {
		t.Fatalf("re-cast after remove: %v", err)
	}
}

func TestRemoveVoteWithoutExistingVote(t *testing.T) {
	useCase, _ := newVoteUseCase(&captureHub{})

	_, err := useCase.RemoveVote(context.Background(), RemoveVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	})
	if !errors.Is(err, domainerrors.ErrVoteNotFound) {
		t.Fatalf("expected ErrVoteNotFound, got %v", err)
	}
}

func TestCastVoteHidesVoterWhenAnonymous(t *testing.T) {
	hub := &captureHub{}
	useCase, store := newVoteUseCase(hub)
	store.SetRetrospective(ports.RetrospectiveProjection{
		RetrospectiveID: "retro-1",
		Status:          "voting",
		MaxVotesPerUser: 3,
		AnonymousVoting: true,
	})

	if _, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-1",
		UserID:          "user-1",
	}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if hub.broadcasts[0].VoteCast.UserID != "" {
		t.Fatalf("anonymous voting leaked the voter: %+v", hub.broadcasts[0].VoteCast)
	}
}

func TestCastVoteRejectsForeignItem(t *testing.T) {
	useCase, store := newVoteUseCase(&captureHub{})
	store.SetItem(ports.ItemProjection{ItemID: "item-x", RetrospectiveID: "retro-other"})

	_, err := useCase.CastVote(context.Background(), CastVoteCommand{
		RetrospectiveID: "retro-1",
		ItemID:          "item-x",
		UserID:          "user-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ownership check to fail, got %v", err)
	}
}
