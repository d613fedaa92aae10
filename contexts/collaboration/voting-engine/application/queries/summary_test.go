package queries

import (
	"context"
	"testing"
	"time"

	"retroboard/contexts/collaboration/voting-engine/adapters/memory"
	"retroboard/contexts/collaboration/voting-engine/domain/entities"
	"retroboard/contexts/collaboration/voting-engine/ports"
)

func newSummaryUseCase(seed []entities.Vote) (SummaryUseCase, *memory.Store) {
	store := memory.NewStore(seed)
	store.SetRetrospective(ports.RetrospectiveProjection{
		RetrospectiveID: "retro-1",
		Status:          "voting",
		MaxVotesPerUser: 5,
	})
	return SummaryUseCase{
		Votes:          store,
		Items:          store,
		Retrospectives: store,
	}, store
}

func TestVoteSummaryUsesCompetitionRanking(t *testing.T) {
	useCase, store := newSummaryUseCase(nil)
	for itemID, count := range map[string]int{
		"item-1": 5,
		"item-2": 5,
		"item-3": 3,
		"item-4": 1,
	} {
		store.SetItem(ports.ItemProjection{
			ItemID:          itemID,
			RetrospectiveID: "retro-1",
			VoteCount:       count,
		})
	}

	result, err := useCase.VoteSummary(context.Background(), "retro-1", "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if result.TotalVotes != 14 {
		t.Fatalf("expected 14 total votes, got %d", result.TotalVotes)
	}
	wantRanks := map[string]int{"item-1": 1, "item-2": 1, "item-3": 3, "item-4": 4}
	if len(result.Summaries) != len(wantRanks) {
		t.Fatalf("expected %d summaries, got %d", len(wantRanks), len(result.Summaries))
	}
	for _, summary := range result.Summaries {
		if summary.Rank != wantRanks[summary.ItemID] {
			t.Fatalf("item %s: expected rank %d, got %d", summary.ItemID, wantRanks[summary.ItemID], summary.Rank)
		}
	}
}

func TestVoteSummaryFlagsCurrentUserVotes(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	useCase, store := newSummaryUseCase([]entities.Vote{
		{VoteID: "vote-1", RetrospectiveID: "retro-1", ItemID: "item-1", UserID: "user-1", CreatedAt: now},
		{VoteID: "vote-2", RetrospectiveID: "retro-1", ItemID: "item-2", UserID: "user-2", CreatedAt: now},
	})
	store.SetItem(ports.ItemProjection{ItemID: "item-1", RetrospectiveID: "retro-1", VoteCount: 1})
	store.SetItem(ports.ItemProjection{ItemID: "item-2", RetrospectiveID: "retro-1", VoteCount: 1})

	result, err := useCase.VoteSummary(context.Background(), "retro-1", "user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	voted := make(map[string]bool, len(result.Summaries))
	for _, summary := range result.Summaries {
		voted[summary.ItemID] = summary.CurrentUserVoted
	}
	if !voted["item-1"] || voted["item-2"] {
		t.Fatalf("expected only item-1 flagged for user-1, got %+v", voted)
	}
}

func TestVoteSummaryEmptyBoard(t *testing.T) {
	useCase, _ := newSummaryUseCase(nil)

	result, err := useCase.VoteSummary(context.Background(), "retro-1", "user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(result.Summaries) != 0 || result.TotalVotes != 0 {
		t.Fatalf("expected an empty summary, got %+v", result)
	}
}

func TestUserVotesReportsRemainingBudget(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	useCase, _ := newSummaryUseCase([]entities.Vote{
		{VoteID: "vote-1", RetrospectiveID: "retro-1", ItemID: "item-1", UserID: "user-1", CreatedAt: now},
		{VoteID: "vote-2", RetrospectiveID: "retro-1", ItemID: "item-2", UserID: "user-1", CreatedAt: now.Add(time.Minute)},
	})

	summary, err := useCase.UserVotes(context.Background(), "retro-1", "user-1")
	if err != nil {
		t.Fatalf("user votes: %v", err)
	}
	if summary.VotesCast != 2 || summary.VotesRemaining != 3 {
		t.Fatalf("expected 2 cast and 3 remaining, got %+v", summary)
	}
	if len(summary.VotedItemIDs) != 2 || summary.VotedItemIDs[0] != "item-1" || summary.VotedItemIDs[1] != "item-2" {
		t.Fatalf("expected voted items in cast order, got %v", summary.VotedItemIDs)
	}
}

func TestUserVotesRemainingNeverGoesNegative(t *testing.T) {
	// A lowered budget after votes were cast must not report a negative
	// remainder.
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	useCase, store := newSummaryUseCase([]entities.Vote{
		{VoteID: "vote-1", RetrospectiveID: "retro-1", ItemID: "item-1", UserID: "user-1", CreatedAt: now},
		{VoteID: "vote-2", RetrospectiveID: "retro-1", ItemID: "item-2", UserID: "user-1", CreatedAt: now},
		{VoteID: "vote-3", RetrospectiveID: "retro-1", ItemID: "item-3", UserID: "user-1", CreatedAt: now},
	})
	store.SetRetrospective(ports.RetrospectiveProjection{
		RetrospectiveID: "retro-1",
		Status:          "voting",
		MaxVotesPerUser: 2,
	})

	summary, err := useCase.UserVotes(context.Background(), "retro-1", "user-1")
	if err != nil {
		t.Fatalf("user votes: %v", err)
	}
	if summary.VotesRemaining != 0 {
		t.Fatalf("expected remaining floored at 0, got %d", summary.VotesRemaining)
	}
}
