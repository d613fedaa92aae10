package httpadapter

import (
	"context"
	"log/slog"

	"retroboard/contexts/collaboration/voting-engine/application/commands"
	"retroboard/contexts/collaboration/voting-engine/application/queries"
	httptransport "retroboard/contexts/collaboration/voting-engine/transport/http"
)

type Handler struct {
	Votes     commands.VoteUseCase
	Summaries queries.SummaryUseCase
	Logger    *slog.Logger
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	retroID string,
	userID string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		RetrospectiveID: retroID,
		ItemID:          req.ItemID,
		UserID:          userID,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		VoteID:          result.Vote.VoteID,
		RetrospectiveID: result.Vote.RetrospectiveID,
		ItemID:          result.Vote.ItemID,
		NewVoteCount:    result.NewVoteCount,
	}, nil
}

func (h Handler) RemoveVoteHandler(
	ctx context.Context,
	retroID string,
	userID string,
	req httptransport.RemoveVoteRequest,
) (httptransport.VoteResponse, error) {
	result, err := h.Votes.RemoveVote(ctx, commands.RemoveVoteCommand{
		RetrospectiveID: retroID,
		ItemID:          req.ItemID,
		UserID:          userID,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		RetrospectiveID: result.Vote.RetrospectiveID,
		ItemID:          result.Vote.ItemID,
		NewVoteCount:    result.NewVoteCount,
	}, nil
}

func (h Handler) VoteSummaryHandler(ctx context.Context, retroID string, userID string) (httptransport.VoteSummaryResponse, error) {
	result, err := h.Summaries.VoteSummary(ctx, retroID, userID)
	if err != nil {
		return httptransport.VoteSummaryResponse{}, err
	}
	summaries := make([]httptransport.VoteSummaryItem, 0, len(result.Summaries))
	for _, summary := range result.Summaries {
		summaries = append(summaries, httptransport.VoteSummaryItem{
			ItemID:           summary.ItemID,
			VoteCount:        summary.VoteCount,
			Rank:             summary.Rank,
			CurrentUserVoted: summary.CurrentUserVoted,
		})
	}
	return httptransport.VoteSummaryResponse{
		Summaries:  summaries,
		TotalVotes: result.TotalVotes,
	}, nil
}

func (h Handler) UserVotesHandler(ctx context.Context, retroID string, userID string) (httptransport.UserVotesResponse, error) {
	summary, err := h.Summaries.UserVotes(ctx, retroID, userID)
	if err != nil {
		return httptransport.UserVotesResponse{}, err
	}
	return httptransport.UserVotesResponse{
		UserID:         summary.UserID,
		VotesCast:      summary.VotesCast,
		VotesRemaining: summary.VotesRemaining,
		VotedItemIDs:   summary.VotedItemIDs,
	}, nil
}
