package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CastVoteRequest struct {
	ItemID string `json:"item_id"`
}

type RemoveVoteRequest struct {
	ItemID string `json:"item_id"`
}

type VoteResponse struct {
	VoteID          string `json:"vote_id,omitempty"`
	RetrospectiveID string `json:"retrospective_id"`
	ItemID          string `json:"item_id"`
	NewVoteCount    int    `json:"new_vote_count"`
}

type VoteSummaryItem struct {
	ItemID           string `json:"item_id"`
	VoteCount        int    `json:"vote_count"`
	Rank             int    `json:"rank"`
	CurrentUserVoted bool   `json:"current_user_voted"`
}

type VoteSummaryResponse struct {
	Summaries  []VoteSummaryItem `json:"summaries"`
	TotalVotes int               `json:"total_votes"`
}

type UserVotesResponse struct {
	UserID         string   `json:"user_id"`
	VotesCast      int      `json:"votes_cast"`
	VotesRemaining int      `json:"votes_remaining"`
	VotedItemIDs   []string `json:"voted_item_ids"`
}
