package queries

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"retroboard/contexts/collaboration/voting-engine/domain/entities"
	domainerrors "retroboard/contexts/collaboration/voting-engine/domain/errors"
	"retroboard/contexts/collaboration/voting-engine/ports"
)

// SummaryUseCase serves the read side of the engine: per-item tallies with
// competition ranking and per-user budget summaries.
type SummaryUseCase struct {
	Votes          ports.VoteRepository
	Items          ports.ItemRepository
	Retrospectives ports.RetrospectiveReader
}

type VoteSummaryResult struct {
	Summaries  []entities.VoteSummary
	TotalVotes int
}

func (uc SummaryUseCase) VoteSummary(ctx context.Context, retroID string, userID string) (VoteSummaryResult, error) {
	if strings.TrimSpace(retroID) == "" {
		return VoteSummaryResult{}, fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}

	items, err := uc.Items.ListItems(ctx, strings.TrimSpace(retroID))
	if err != nil {
		return VoteSummaryResult{}, err
	}

	votedItems := make(map[string]bool)
	if strings.TrimSpace(userID) != "" {
		userVotes, err := uc.Votes.ListVotesByUser(ctx, strings.TrimSpace(retroID), strings.TrimSpace(userID))
		if err != nil {
			return VoteSummaryResult{}, err
		}
		for _, vote := range userVotes {
			votedItems[vote.ItemID] = true
		}
	}

	ranked := make([]ports.ItemProjection, len(items))
	copy(ranked, items)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].VoteCount > ranked[j].VoteCount
	})

	// Competition ranking: ties share a rank, the next distinct count takes
	// its positional rank, so [5,5,3,1] ranks [1,1,3,4].
	ranks := make(map[string]int, len(ranked))
	currentRank := 1
	lastCount := -1
	for i, item := range ranked {
		if item.VoteCount != lastCount {
			currentRank = i + 1
			lastCount = item.VoteCount
		}
		ranks[item.ItemID] = currentRank
	}

	result := VoteSummaryResult{
		Summaries: make([]entities.VoteSummary, 0, len(items)),
	}
	for _, item := range items {
		result.Summaries = append(result.Summaries, entities.VoteSummary{
			ItemID:           item.ItemID,
			VoteCount:        item.VoteCount,
			Rank:             ranks[item.ItemID],
			CurrentUserVoted: votedItems[item.ItemID],
		})
		result.TotalVotes += item.VoteCount
	}
	return result, nil
}

func (uc SummaryUseCase) UserVotes(ctx context.Context, retroID string, userID string) (entities.UserVoteSummary, error) {
	if strings.TrimSpace(retroID) == "" {
		return entities.UserVoteSummary{}, fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}
	if strings.TrimSpace(userID) == "" {
		return entities.UserVoteSummary{}, fmt.Errorf("%w: user_id is required", domainerrors.ErrInvalidInput)
	}

	retro, err := uc.Retrospectives.GetRetrospective(ctx, strings.TrimSpace(retroID))
	if err != nil {
		return entities.UserVoteSummary{}, err
	}
	votes, err := uc.Votes.ListVotesByUser(ctx, retro.RetrospectiveID, strings.TrimSpace(userID))
	if err != nil {
		return entities.UserVoteSummary{}, err
	}

	votedItemIDs := make([]string, 0, len(votes))
	for _, vote := range votes {
		votedItemIDs = append(votedItemIDs, vote.ItemID)
	}
	remaining := retro.MaxVotesPerUser - len(votes)
	if remaining < 0 {
		remaining = 0
	}
	return entities.UserVoteSummary{
		UserID:         strings.TrimSpace(userID),
		VotesCast:      len(votes),
		VotesRemaining: remaining,
		VotedItemIDs:   votedItemIDs,
	}, nil
}
