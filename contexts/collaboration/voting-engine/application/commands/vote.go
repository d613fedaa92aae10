package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"retroboard/contexts/collaboration/voting-engine/domain/entities"
	domainerrors "retroboard/contexts/collaboration/voting-engine/domain/errors"
	"retroboard/contexts/collaboration/voting-engine/ports"
	"retroboard/internal/shared/events"
)

const (
	statusActive = "active"
	statusVoting = "voting"
)

// VoteUseCase enforces the voting rules of the owning retrospective: the
// phase gate, the per-item duplicate rule, and the per-user budget.
type VoteUseCase struct {
	Votes          ports.VoteRepository
	Items          ports.ItemRepository
	Retrospectives ports.RetrospectiveReader
	Hub            ports.EventBroadcaster
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

type CastVoteCommand struct {
	RetrospectiveID string
	ItemID          string
	UserID          string
}

type RemoveVoteCommand struct {
	RetrospectiveID string
	ItemID          string
	UserID          string
}

// VoteResult reports the item's counter after the mutation.
type VoteResult struct {
	Vote         entities.Vote
	NewVoteCount int
}

func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (VoteResult, error) {
	if strings.TrimSpace(cmd.RetrospectiveID) == "" || strings.TrimSpace(cmd.ItemID) == "" {
		return VoteResult{}, fmt.Errorf("%w: retrospective_id and item_id are required", domainerrors.ErrInvalidInput)
	}
	if strings.TrimSpace(cmd.UserID) == "" {
		return VoteResult{}, fmt.Errorf("%w: acting user is required", domainerrors.ErrInvalidInput)
	}

	retro, err := uc.Retrospectives.GetRetrospective(ctx, strings.TrimSpace(cmd.RetrospectiveID))
	if err != nil {
		return VoteResult{}, err
	}
	if retro.Status != statusActive && retro.Status != statusVoting {
		return VoteResult{}, fmt.Errorf("%w: retrospective is %s", domainerrors.ErrVotingClosed, retro.Status)
	}

	item, err := uc.Items.GetItem(ctx, strings.TrimSpace(cmd.ItemID))
	if err != nil {
		return VoteResult{}, err
	}
	if item.RetrospectiveID != retro.RetrospectiveID {
		return VoteResult{}, fmt.Errorf("%w: item does not belong to this retrospective", domainerrors.ErrInvalidInput)
	}

	userID := strings.TrimSpace(cmd.UserID)
	if !retro.AllowMultipleVotesPerItem {
		_, found, err := uc.Votes.GetVoteByUserAndItem(ctx, retro.RetrospectiveID, item.ItemID, userID)
		if err != nil {
			return VoteResult{}, err
		}
		if found {
			return VoteResult{}, fmt.Errorf("%w: item %s", domainerrors.ErrAlreadyVoted, item.ItemID)
		}
	}

	castSoFar, err := uc.Votes.CountVotesByUser(ctx, retro.RetrospectiveID, userID)
	if err != nil {
		return VoteResult{}, err
	}
	if castSoFar >= retro.MaxVotesPerUser {
		return VoteResult{}, fmt.Errorf("%w: all %d votes used", domainerrors.ErrVoteLimitExceeded, retro.MaxVotesPerUser)
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return VoteResult{}, err
	}
	now := uc.now()
	vote := entities.Vote{
		VoteID:          voteID,
		RetrospectiveID: retro.RetrospectiveID,
		ItemID:          item.ItemID,
		UserID:          userID,
		CreatedAt:       now,
	}
	if err := uc.Votes.SaveVote(ctx, vote); err != nil {
		return VoteResult{}, err
	}

	newCount, err := uc.Items.IncrementVoteCount(ctx, item.ItemID)
	if err != nil {
		// The vote row and the item counter must move together. Undo the
		// vote so a failed increment leaves no phantom ballot behind.
		if rollbackErr := uc.Votes.DeleteVote(ctx, vote.VoteID); rollbackErr != nil {
			resolveLogger(uc.Logger).Error("vote rollback failed",
				"event", "voting_cast_rollback_failed",
				"module", "collaboration/voting-engine",
				"layer", "application",
				"vote_id", vote.VoteID,
				"item_id", item.ItemID,
				"error", rollbackErr.Error(),
			)
		}
		return VoteResult{}, err
	}

	event := events.New(retro.RetrospectiveID, events.TypeVoteCast, now)
	event.VoteCast = &events.VoteChange{
		ItemID:       item.ItemID,
		NewVoteCount: newCount,
		UserID:       eventUserID(retro, userID),
	}
	uc.Hub.Broadcast(retro.RetrospectiveID, event)

	resolveLogger(uc.Logger).Info("vote cast",
		"event", "voting_vote_cast",
		"module", "collaboration/voting-engine",
		"layer", "application",
		"retrospective_id", retro.RetrospectiveID,
		"item_id", item.ItemID,
		"new_vote_count", newCount,
	)
	return VoteResult{Vote: vote, NewVoteCount: newCount}, nil
}

func (uc VoteUseCase) RemoveVote(ctx context.Context, cmd RemoveVoteCommand) (VoteResult, error) {
	if strings.TrimSpace(cmd.RetrospectiveID) == "" || strings.TrimSpace(cmd.ItemID) == "" {
		return VoteResult{}, fmt.Errorf("%w: retrospective_id and item_id are required", domainerrors.ErrInvalidInput)
	}
	if strings.TrimSpace(cmd.UserID) == "" {
		return VoteResult{}, fmt.Errorf("%w: acting user is required", domainerrors.ErrInvalidInput)
	}

	userID := strings.TrimSpace(cmd.UserID)
	vote, found, err := uc.Votes.GetVoteByUserAndItem(ctx, strings.TrimSpace(cmd.RetrospectiveID), strings.TrimSpace(cmd.ItemID), userID)
	if err != nil {
		return VoteResult{}, err
	}
	if !found {
		return VoteResult{}, fmt.Errorf("%w: no vote on item %s", domainerrors.ErrVoteNotFound, strings.TrimSpace(cmd.ItemID))
	}

	if err := uc.Votes.DeleteVote(ctx, vote.VoteID); err != nil {
		return VoteResult{}, err
	}
	newCount, err := uc.Items.DecrementVoteCount(ctx, vote.ItemID)
	if err != nil {
		resolveLogger(uc.Logger).Warn("vote count decrement failed",
			"event", "voting_decrement_failed",
			"module", "collaboration/voting-engine",
			"layer", "application",
			"item_id", vote.ItemID,
			"error", err.Error(),
		)
		newCount = 0
	}

	now := uc.now()
	event := events.New(vote.RetrospectiveID, events.TypeVoteRemoved, now)
	change := &events.VoteChange{
		ItemID:       vote.ItemID,
		NewVoteCount: newCount,
		UserID:       userID,
	}
	if retro, retroErr := uc.Retrospectives.GetRetrospective(ctx, vote.RetrospectiveID); retroErr == nil {
		change.UserID = eventUserID(retro, userID)
	}
	event.VoteRemoved = change
	uc.Hub.Broadcast(vote.RetrospectiveID, event)

	return VoteResult{Vote: vote, NewVoteCount: newCount}, nil
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

// eventUserID hides the voter when the retrospective runs anonymous voting.
func eventUserID(retro ports.RetrospectiveProjection, userID string) string {
	if retro.AnonymousVoting {
		return ""
	}
	return userID
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
