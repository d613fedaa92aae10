package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	boardentities "retroboard/contexts/collaboration/board-service/domain/entities"
	boarderrors "retroboard/contexts/collaboration/board-service/domain/errors"
	"retroboard/contexts/collaboration/board-service/ports"
	boardhttp "retroboard/contexts/collaboration/board-service/transport/http"
)

func (s *Server) registerBoardRoutes() {
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/items", s.handleItemCreate)
	s.mux.HandleFunc("GET /v1/retrospectives/{retrospective_id}/items", s.handleItemList)
	s.mux.HandleFunc("PATCH /v1/retrospectives/{retrospective_id}/items/{item_id}", s.handleItemUpdate)
	s.mux.HandleFunc("POST /v1/retrospectives/{retrospective_id}/items/{item_id}/move", s.handleItemMove)
	s.mux.HandleFunc("DELETE /v1/retrospectives/{retrospective_id}/items/{item_id}", s.handleItemDelete)

	s.mux.HandleFunc("POST /v1/action-items", s.handleActionItemCreate)
	s.mux.HandleFunc("GET /v1/action-items", s.handleActionItemList)
	s.mux.HandleFunc("PATCH /v1/action-items/{action_item_id}", s.handleActionItemUpdate)
	s.mux.HandleFunc("POST /v1/action-items/{action_item_id}/status", s.handleActionItemUpdateStatus)
	s.mux.HandleFunc("DELETE /v1/action-items/{action_item_id}", s.handleActionItemDelete)
}

func writeBoardError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, boardhttp.ErrorResponse{Code: code, Message: message})
}

func writeBoardDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, boarderrors.ErrItemNotFound):
		writeBoardError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, boarderrors.ErrActionItemNotFound):
		writeBoardError(w, http.StatusNotFound, "action_item_not_found", err.Error())
	case errors.Is(err, boarderrors.ErrRetrospectiveNotFound):
		writeBoardError(w, http.StatusNotFound, "retrospective_not_found", err.Error())
	case errors.Is(err, boarderrors.ErrInvalidInput):
		writeBoardError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeBoardError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireBoardUser(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, userName := requestUser(r)
	if userID == "" {
		writeBoardError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", "", false
	}
	return userID, userName, true
}

func (s *Server) handleItemCreate(w http.ResponseWriter, r *http.Request) {
	userID, userName, ok := requireBoardUser(w, r)
	if !ok {
		return
	}
	var req boardhttp.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBoardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.board.Handler.CreateItemHandler(r.Context(), r.PathValue("retrospective_id"), userID, userName, req)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleItemList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.board.Handler.ListItemsHandler(
		r.Context(),
		r.PathValue("retrospective_id"),
		query.Get("column_id"),
		query.Get("sort_by_votes") == "true",
	)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleItemUpdate(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireBoardUser(w, r); !ok {
		return
	}
	var req boardhttp.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBoardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.board.Handler.UpdateItemHandler(r.Context(), r.PathValue("item_id"), req)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleItemMove(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireBoardUser(w, r); !ok {
		return
	}
	var req boardhttp.MoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBoardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.board.Handler.MoveItemHandler(
		r.Context(),
		r.PathValue("retrospective_id"),
		r.PathValue("item_id"),
		req,
	)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleItemDelete(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireBoardUser(w, r); !ok {
		return
	}
	err := s.board.Handler.DeleteItemHandler(r.Context(), r.PathValue("retrospective_id"), r.PathValue("item_id"))
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActionItemCreate(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireBoardUser(w, r)
	if !ok {
		return
	}
	var req boardhttp.CreateActionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBoardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.board.Handler.CreateActionItemHandler(r.Context(), userID, req)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleActionItemList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := ports.ActionItemListFilter{
		RetrospectiveID:  query.Get("retrospective_id"),
		TeamID:           query.Get("team_id"),
		AssigneeID:       query.Get("assignee_id"),
		IncludeCompleted: query.Get("include_completed") == "true",
	}
	for _, status := range query["status"] {
		filter.Statuses = append(filter.Statuses, boardentities.ActionItemStatus(status))
	}
	for _, priority := range query["priority"] {
		filter.Priorities = append(filter.Priorities, boardentities.ActionItemPriority(priority))
	}
	resp, err := s.board.Handler.ListActionItemsHandler(r.Context(), filter)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActionItemUpdate(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireBoardUser(w, r); !ok {
		return
	}
	var req boardhttp.UpdateActionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBoardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.board.Handler.UpdateActionItemHandler(r.Context(), r.PathValue("action_item_id"), req)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActionItemUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireBoardUser(w, r); !ok {
		return
	}
	var req boardhttp.UpdateActionItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBoardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.board.Handler.UpdateActionItemStatusHandler(r.Context(), r.PathValue("action_item_id"), req)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActionItemDelete(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireBoardUser(w, r); !ok {
		return
	}
	if err := s.board.Handler.DeleteActionItemHandler(r.Context(), r.PathValue("action_item_id")); err != nil {
		writeBoardDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
