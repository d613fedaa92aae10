package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	presenceerrors "retroboard/contexts/collaboration/presence-service/domain/errors"
	presencehttp "retroboard/contexts/collaboration/presence-service/transport/http"
)

func (s *Server) registerPresenceRoutes() {
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/participants/join", s.handlePresenceJoin)
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/participants/leave", s.handlePresenceLeave)
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/participants/heartbeat", s.handlePresenceHeartbeat)
	s.mux.HandleFunc("GET /v1/retrospectives/{retrospective_id}/participants", s.handlePresenceList)
}

func writePresenceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, presencehttp.ErrorResponse{Code: code, Message: message})
}

func writePresenceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, presenceerrors.ErrRetrospectiveNotFound):
		writePresenceError(w, http.StatusNotFound, "retrospective_not_found", err.Error())
	case errors.Is(err, presenceerrors.ErrParticipantNotFound):
		writePresenceError(w, http.StatusNotFound, "participant_not_found", err.Error())
	case errors.Is(err, presenceerrors.ErrInvalidInput):
		writePresenceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writePresenceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requirePresenceUser(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, userName := requestUser(r)
	if userID == "" {
		writePresenceError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", "", false
	}
	return userID, userName, true
}

func (s *Server) handlePresenceJoin(w http.ResponseWriter, r *http.Request) {
	userID, userName, ok := requirePresenceUser(w, r)
	if !ok {
		return
	}
	// The body is optional: joining with identity headers alone is enough.
	var req presencehttp.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writePresenceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.presence.Handler.JoinHandler(r.Context(), r.PathValue("retrospective_id"), userID, userName, req)
	if err != nil {
		writePresenceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePresenceLeave(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requirePresenceUser(w, r)
	if !ok {
		return
	}
	if err := s.presence.Handler.LeaveHandler(r.Context(), r.PathValue("retrospective_id"), userID); err != nil {
		writePresenceDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePresenceHeartbeat(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requirePresenceUser(w, r)
	if !ok {
		return
	}
	if err := s.presence.Handler.HeartbeatHandler(r.Context(), r.PathValue("retrospective_id"), userID); err != nil {
		writePresenceDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePresenceList(w http.ResponseWriter, r *http.Request) {
	resp, err := s.presence.Handler.ListParticipantsHandler(r.Context(), r.PathValue("retrospective_id"))
	if err != nil {
		writePresenceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
