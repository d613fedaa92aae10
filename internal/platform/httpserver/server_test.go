package httpserver

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	boardservice "retroboard/contexts/collaboration/board-service"
	presenceservice "retroboard/contexts/collaboration/presence-service"
	retrospectiveservice "retroboard/contexts/collaboration/retrospective-service"
	retrohttp "retroboard/contexts/collaboration/retrospective-service/transport/http"
	votingengine "retroboard/contexts/collaboration/voting-engine"
	votingports "retroboard/contexts/collaboration/voting-engine/ports"
	votinghttp "retroboard/contexts/collaboration/voting-engine/transport/http"
	"retroboard/internal/platform/realtime"
	"retroboard/internal/shared/events"
)

type serverFixture struct {
	server *Server
	hub    *realtime.Hub
	retros retrospectiveservice.Module
	board  boardservice.Module
	voting votingengine.Module
}

func newTestServer(t *testing.T) serverFixture {
	t.Helper()
	logger := slog.Default()
	hub := realtime.NewHub(logger)

	retros := retrospectiveservice.NewInMemoryModule(nil, hub, logger)
	board := boardservice.NewInMemoryModule(nil, nil, hub, logger)
	voting := votingengine.NewInMemoryModule(nil, hub, logger)
	presence := presenceservice.NewInMemoryModule(nil, hub, logger)

	return serverFixture{
		server: New(retros, board, voting, presence, hub, logger, ":0"),
		hub:    hub,
		retros: retros,
		board:  board,
		voting: voting,
	}
}

func (f serverFixture) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	recorder := httptest.NewRecorder()
	f.server.mux.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateAndGetRetrospective(t *testing.T) {
	fixture := newTestServer(t)

	created := fixture.do(t, http.MethodPost, "/v1/retrospectives", "user-1", retrohttp.CreateRetrospectiveRequest{
		TeamID:     "team-1",
		TeamName:   "Platform",
		SprintName: "Sprint 12",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", created.Code, created.Body.String())
	}
	var resp retrohttp.RetrospectiveResponse
	if err := json.Unmarshal(created.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "draft" {
		t.Fatalf("expected draft status, got %s", resp.Status)
	}

	fetched := fixture.do(t, http.MethodGet, "/v1/retrospectives/"+resp.RetrospectiveID, "", nil)
	if fetched.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", fetched.Code)
	}
}

func TestCreateRetrospectiveRequiresIdentity(t *testing.T) {
	fixture := newTestServer(t)

	recorder := fixture.do(t, http.MethodPost, "/v1/retrospectives", "", retrohttp.CreateRetrospectiveRequest{
		TeamID:     "team-1",
		TeamName:   "Platform",
		SprintName: "Sprint 12",
	})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestUnknownRetrospectiveMapsToNotFound(t *testing.T) {
	fixture := newTestServer(t)

	recorder := fixture.do(t, http.MethodGet, "/v1/retrospectives/missing", "", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var errResp retrohttp.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != "retrospective_not_found" {
		t.Fatalf("unexpected error code %q", errResp.Code)
	}
}

func TestVoteOutsideVotingPhaseMapsToConflict(t *testing.T) {
	fixture := newTestServer(t)
	fixture.voting.Store.SetRetrospective(votingports.RetrospectiveProjection{
		RetrospectiveID: "retro-1",
		Status:          "completed",
		MaxVotesPerUser: 3,
	})
	fixture.voting.Store.SetItem(votingports.ItemProjection{
		ItemID:          "item-1",
		RetrospectiveID: "retro-1",
	})

	recorder := fixture.do(t, http.MethodPost, "/v1/retrospectives/retro-1/votes", "user-1",
		votinghttp.CastVoteRequest{ItemID: "item-1"})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestPresenceJoinUnknownRetrospective(t *testing.T) {
	fixture := newTestServer(t)

	// An empty body is accepted; the unknown retrospective is what fails.
	recorder := fixture.do(t, http.MethodPost, "/v1/retrospectives/retro-missing/participants/join", "user-1", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestEventStreamReceivesBroadcasts(t *testing.T) {
	fixture := newTestServer(t)
	ts := httptest.NewServer(fixture.server.mux)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/v1/retrospectives/retro-1/events", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// The subscription registers before the handler flushes headers, so the
	// broadcast after the first response byte is guaranteed to be queued.
	event := events.New("retro-1", events.TypeStatusChanged, time.Now())
	event.StatusChanged = &events.StatusChanged{PreviousStatus: "draft", NewStatus: "active", ChangedBy: "user-1"}
	fixture.hub.Broadcast("retro-1", event)

	scanner := bufio.NewScanner(resp.Body)
	deadline := time.After(5 * time.Second)
	received := make(chan string, 1)
	go func() {
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data: ") {
				received <- strings.TrimPrefix(line, "data: ")
				return
			}
		}
	}()

	select {
	case payload := <-received:
		var decoded events.Event
		if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if decoded.Type != events.TypeStatusChanged || decoded.StatusChanged == nil {
			t.Fatalf("unexpected event %+v", decoded)
		}
	case <-deadline:
		t.Fatal("no event received on the stream")
	}
}
