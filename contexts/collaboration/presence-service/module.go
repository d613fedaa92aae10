package presenceservice

import (
	"log/slog"

	httpadapter "retroboard/contexts/collaboration/presence-service/adapters/http"
	"retroboard/contexts/collaboration/presence-service/adapters/memory"
	"retroboard/contexts/collaboration/presence-service/application"
	"retroboard/contexts/collaboration/presence-service/domain/entities"
	"retroboard/contexts/collaboration/presence-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Participants   ports.ParticipantRepository
	Retrospectives ports.RetrospectiveReader
	Hub            ports.EventBroadcaster
	Clock          ports.Clock
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Participants:   deps.Participants,
		Retrospectives: deps.Retrospectives,
		Hub:            deps.Hub,
		Clock:          deps.Clock,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Presence: service,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Participant, hub ports.EventBroadcaster, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Participants:   store,
		Retrospectives: store,
		Hub:            hub,
		Clock:          store,
		Logger:         logger,
	})
	module.Store = store
	return module
}
