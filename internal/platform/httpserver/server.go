package httpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	boardservice "retroboard/contexts/collaboration/board-service"
	presenceservice "retroboard/contexts/collaboration/presence-service"
	retrospectiveservice "retroboard/contexts/collaboration/retrospective-service"
	votingengine "retroboard/contexts/collaboration/voting-engine"
	"retroboard/internal/platform/realtime"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "retroboard/internal/platform/httpserver/docs"
)

type Server struct {
	mux            *http.ServeMux
	logger         *slog.Logger
	addr           string
	retrospectives retrospectiveservice.Module
	board          boardservice.Module
	voting         votingengine.Module
	presence       presenceservice.Module
	hub            *realtime.Hub
}

func New(
	retrospectives retrospectiveservice.Module,
	board boardservice.Module,
	voting votingengine.Module,
	presence presenceservice.Module,
	hub *realtime.Hub,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:            http.NewServeMux(),
		logger:         logger,
		addr:           addr,
		retrospectives: retrospectives,
		board:          board,
		voting:         voting,
		presence:       presence,
		hub:            hub,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerRetrospectiveRoutes()
	s.registerBoardRoutes()
	s.registerVotingRoutes()
	s.registerPresenceRoutes()

	s.mux.HandleFunc("GET /v1/retrospectives/{retrospective_id}/events", s.handleSubscribe)
}

// handleSubscribe streams retrospective events over SSE until the client
// disconnects. There is no terminal event: the connection simply ends.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	retroID := r.PathValue("retrospective_id")
	if strings.TrimSpace(retroID) == "" {
		writeRetrospectiveError(w, http.StatusBadRequest, "invalid_request", "retrospective_id is required")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeRetrospectiveError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer does not support streaming")
		return
	}

	sub := s.hub.Subscribe(retroID)
	defer s.hub.Unsubscribe(retroID, sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case event, open := <-sub.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				s.logger.Error("event encode failed",
					"event", "http_sse_encode_failed",
					"module", "internal/platform/httpserver",
					"layer", "platform",
					"retrospective_id", retroID,
					"error", err.Error(),
				)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// requestUser resolves the acting user from the identity headers set by the
// gateway. Authentication itself happens upstream.
func requestUser(r *http.Request) (userID string, userName string) {
	return strings.TrimSpace(r.Header.Get("X-User-Id")), strings.TrimSpace(r.Header.Get("X-User-Name"))
}
