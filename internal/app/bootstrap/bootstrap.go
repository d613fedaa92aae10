package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	boardservice "retroboard/contexts/collaboration/board-service"
	boardpostgres "retroboard/contexts/collaboration/board-service/adapters/postgres"
	presenceservice "retroboard/contexts/collaboration/presence-service"
	presencepostgres "retroboard/contexts/collaboration/presence-service/adapters/postgres"
	presenceworkers "retroboard/contexts/collaboration/presence-service/application/workers"
	retrospectiveservice "retroboard/contexts/collaboration/retrospective-service"
	retropostgres "retroboard/contexts/collaboration/retrospective-service/adapters/postgres"
	votingengine "retroboard/contexts/collaboration/voting-engine"
	votingpostgres "retroboard/contexts/collaboration/voting-engine/adapters/postgres"
	"retroboard/internal/platform/config"
	"retroboard/internal/platform/db"
	"retroboard/internal/platform/httpserver"
	"retroboard/internal/platform/realtime"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	hub      *realtime.Hub
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	expirer      presenceworkers.PresenceExpirer
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub(logger)

	retroRepo := retropostgres.NewRepository(pg.DB, logger)
	retroModule := retrospectiveservice.NewModule(retrospectiveservice.Dependencies{
		Retrospectives: retroRepo,
		Hub:            hub,
		Clock:          retropostgres.SystemClock{},
		IDGen:          retropostgres.UUIDGenerator{},
		Logger:         logger,
	})

	boardRepo := boardpostgres.NewRepository(pg.DB, logger)
	boardModule := boardservice.NewModule(boardservice.Dependencies{
		Items:          boardRepo,
		ActionItems:    boardRepo,
		Retrospectives: boardRepo,
		Hub:            hub,
		Clock:          boardpostgres.SystemClock{},
		IDGen:          boardpostgres.UUIDGenerator{},
		Logger:         logger,
	})

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	votingModule := votingengine.NewModule(votingengine.Dependencies{
		Votes:          votingRepo,
		Items:          votingRepo,
		Retrospectives: votingRepo,
		Hub:            hub,
		Clock:          votingpostgres.SystemClock{},
		IDGen:          votingpostgres.UUIDGenerator{},
		Logger:         logger,
	})

	presenceRepo := presencepostgres.NewRepository(pg.DB, logger)
	presenceModule := presenceservice.NewModule(presenceservice.Dependencies{
		Participants:   presenceRepo,
		Retrospectives: presenceRepo,
		Hub:            hub,
		Clock:          presencepostgres.SystemClock{},
		Logger:         logger,
	})

	server := httpserver.New(
		retroModule,
		boardModule,
		votingModule,
		presenceModule,
		hub,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)

	return &APIApp{
		server:   server,
		postgres: pg,
		hub:      hub,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		postgres: pg,
		expirer: presenceworkers.PresenceExpirer{
			Participants:  presencepostgres.NewRepository(pg.DB, logger),
			Clock:         presencepostgres.SystemClock{},
			OnlineTimeout: cfg.PresenceOnlineTimeout,
			TTL:           cfg.PresenceTTL,
			Logger:        logger,
		},
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.expirer.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
