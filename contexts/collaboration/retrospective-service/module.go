package retrospectiveservice

import (
	"log/slog"

	httpadapter "retroboard/contexts/collaboration/retrospective-service/adapters/http"
	"retroboard/contexts/collaboration/retrospective-service/adapters/memory"
	"retroboard/contexts/collaboration/retrospective-service/application"
	"retroboard/contexts/collaboration/retrospective-service/domain/entities"
	"retroboard/contexts/collaboration/retrospective-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Retrospectives ports.RetrospectiveRepository
	Hub            ports.EventBroadcaster
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Retrospectives,
		Hub:    deps.Hub,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Retrospectives: service,
			Logger:         deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Retrospective, hub ports.EventBroadcaster, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Retrospectives: store,
		Hub:            hub,
		Clock:          store,
		IDGen:          store,
		Logger:         logger,
	})
	module.Store = store
	return module
}
