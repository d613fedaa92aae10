package entities

import "time"

// Vote is one ballot cast by a user on a board item.
type Vote struct {
	VoteID          string
	RetrospectiveID string
	ItemID          string
	UserID          string
	CreatedAt       time.Time
}

// VoteSummary is the per-item tally with competition ranking. Items with the
// same count share a rank and the next distinct count skips ahead, so counts
// [5,5,3,1] rank [1,1,3,4].
type VoteSummary struct {
	ItemID           string
	VoteCount        int
	Rank             int
	CurrentUserVoted bool
}

// UserVoteSummary reports a user's budget inside one retrospective.
type UserVoteSummary struct {
	UserID         string
	VotesCast      int
	VotesRemaining int
	VotedItemIDs   []string
}
