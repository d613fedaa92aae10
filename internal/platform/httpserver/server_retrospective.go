package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	retroerrors "retroboard/contexts/collaboration/retrospective-service/domain/errors"
	retrohttp "retroboard/contexts/collaboration/retrospective-service/transport/http"
)

func (s *Server) registerRetrospectiveRoutes() {
	s.mux.HandleFunc("POST /v1/retrospectives", s.handleRetrospectiveCreate)
	s.mux.HandleFunc("GET /v1/retrospectives", s.handleRetrospectiveList)
	s.mux.HandleFunc("GET /v1/retrospectives/{retrospective_id}", s.handleRetrospectiveGet)
	s.mux.HandleFunc("PATCH /v1/retrospectives/{retrospective_id}", s.handleRetrospectiveUpdate)
	s.mux.HandleFunc("DELETE /v1/retrospectives/{retrospective_id}", s.handleRetrospectiveDelete)
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/activate", s.handleRetrospectiveActivate)
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/start-voting", s.handleRetrospectiveStartVoting)
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/start-discussion", s.handleRetrospectiveStartDiscussion)
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/complete", s.handleRetrospectiveComplete)
}

func writeRetrospectiveError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, retrohttp.ErrorResponse{Code: code, Message: message})
}

func writeRetrospectiveDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, retroerrors.ErrRetrospectiveNotFound):
		writeRetrospectiveError(w, http.StatusNotFound, "retrospective_not_found", err.Error())
	case errors.Is(err, retroerrors.ErrInvalidStatus):
		writeRetrospectiveError(w, http.StatusConflict, "invalid_status", err.Error())
	case errors.Is(err, retroerrors.ErrInvalidInput):
		writeRetrospectiveError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRetrospectiveError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireRetrospectiveUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, _ := requestUser(r)
	if userID == "" {
		writeRetrospectiveError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func (s *Server) handleRetrospectiveCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireRetrospectiveUser(w, r)
	if !ok {
		return
	}
	var req retrohttp.CreateRetrospectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRetrospectiveError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.retrospectives.Handler.CreateRetrospectiveHandler(r.Context(), userID, req)
	if err != nil {
		writeRetrospectiveDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRetrospectiveList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeRetrospectiveError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.retrospectives.Handler.ListRetrospectivesHandler(
		r.Context(),
		query.Get("team_id"),
		query["status"],
		limit,
	)
	if err != nil {
		writeRetrospectiveDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetrospectiveGet(w http.ResponseWriter, r *http.Request) {
	resp, err := s.retrospectives.Handler.GetRetrospectiveHandler(r.Context(), r.PathValue("retrospective_id"))
	if err != nil {
		writeRetrospectiveDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetrospectiveUpdate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRetrospectiveUser(w, r); !ok {
		return
	}
	var req retrohttp.UpdateRetrospectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRetrospectiveError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.retrospectives.Handler.UpdateRetrospectiveHandler(r.Context(), r.PathValue("retrospective_id"), req)
	if err != nil {
		writeRetrospectiveDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetrospectiveDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRetrospectiveUser(w, r); !ok {
		return
	}
	if err := s.retrospectives.Handler.DeleteRetrospectiveHandler(r.Context(), r.PathValue("retrospective_id")); err != nil {
		writeRetrospectiveDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRetrospectiveActivate(w http.ResponseWriter, r *http.Request) {
	s.handleRetrospectiveTransition(w, r, s.retrospectives.Handler.ActivateHandler)
}

func (s *Server) handleRetrospectiveStartVoting(w http.ResponseWriter, r *http.Request) {
	s.handleRetrospectiveTransition(w, r, s.retrospectives.Handler.StartVotingHandler)
}

func (s *Server) handleRetrospectiveStartDiscussion(w http.ResponseWriter, r *http.Request) {
	s.handleRetrospectiveTransition(w, r, s.retrospectives.Handler.StartDiscussionHandler)
}

func (s *Server) handleRetrospectiveComplete(w http.ResponseWriter, r *http.Request) {
	s.handleRetrospectiveTransition(w, r, s.retrospectives.Handler.CompleteHandler)
}

func (s *Server) handleRetrospectiveTransition(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, retroID string, userID string) (retrohttp.RetrospectiveResponse, error),
) {
	userID, ok := requireRetrospectiveUser(w, r)
	if !ok {
		return
	}
	retroID := strings.TrimSpace(r.PathValue("retrospective_id"))
	resp, err := transition(r.Context(), retroID, userID)
	if err != nil {
		writeRetrospectiveDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
