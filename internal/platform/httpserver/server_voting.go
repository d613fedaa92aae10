package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	votingerrors "retroboard/contexts/collaboration/voting-engine/domain/errors"
	votinghttp "retroboard/contexts/collaboration/voting-engine/transport/http"
)

func (s *Server) registerVotingRoutes() {
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/votes", s.handleVoteCast)
	s.mux.HandleFunc("DELETE /v1/retrospectives/{retrospective_id}/votes/{item_id}", s.handleVoteRemove)
	s.mux.HandleFunc("GET /v1/retrospectives/{retrospective_id}/votes/summary", s.handleVoteSummary)
	s.mux.HandleFunc("GET /v1/retrospectives/{retrospective_id}/votes/me", s.handleUserVotes)
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{Code: code, Message: message})
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrVoteNotFound):
		writeVotingError(w, http.StatusNotFound, "vote_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrItemNotFound):
		writeVotingError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrRetrospectiveNotFound):
		writeVotingError(w, http.StatusNotFound, "retrospective_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrVotingClosed):
		writeVotingError(w, http.StatusConflict, "voting_closed", err.Error())
	case errors.Is(err, votingerrors.ErrAlreadyVoted):
		writeVotingError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, votingerrors.ErrVoteLimitExceeded):
		writeVotingError(w, http.StatusConflict, "vote_limit_exceeded", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidInput):
		writeVotingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireVotingUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, _ := requestUser(r)
	if userID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func (s *Server) handleVoteCast(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireVotingUser(w, r)
	if !ok {
		return
	}
	var req votinghttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.CastVoteHandler(r.Context(), r.PathValue("retrospective_id"), userID, req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVoteRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireVotingUser(w, r)
	if !ok {
		return
	}
	resp, err := s.voting.Handler.RemoveVoteHandler(
		r.Context(),
		r.PathValue("retrospective_id"),
		userID,
		votinghttp.RemoveVoteRequest{ItemID: r.PathValue("item_id")},
	)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := requestUser(r)
	resp, err := s.voting.Handler.VoteSummaryHandler(r.Context(), r.PathValue("retrospective_id"), userID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserVotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireVotingUser(w, r)
	if !ok {
		return
	}
	resp, err := s.voting.Handler.UserVotesHandler(r.Context(), r.PathValue("retrospective_id"), userID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
