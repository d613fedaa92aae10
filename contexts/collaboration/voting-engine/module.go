package votingengine

import (
	"log/slog"

	httpadapter "retroboard/contexts/collaboration/voting-engine/adapters/http"
	"retroboard/contexts/collaboration/voting-engine/adapters/memory"
	"retroboard/contexts/collaboration/voting-engine/application/commands"
	"retroboard/contexts/collaboration/voting-engine/application/queries"
	"retroboard/contexts/collaboration/voting-engine/domain/entities"
	"retroboard/contexts/collaboration/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Votes          ports.VoteRepository
	Items          ports.ItemRepository
	Retrospectives ports.RetrospectiveReader
	Hub            ports.EventBroadcaster
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Votes:          deps.Votes,
		Items:          deps.Items,
		Retrospectives: deps.Retrospectives,
		Hub:            deps.Hub,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		Logger:         deps.Logger,
	}
	summaryUseCase := queries.SummaryUseCase{
		Votes:          deps.Votes,
		Items:          deps.Items,
		Retrospectives: deps.Retrospectives,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:     voteUseCase,
			Summaries: summaryUseCase,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Vote, hub ports.EventBroadcaster, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Votes:          store,
		Items:          store,
		Retrospectives: store,
		Hub:            hub,
		Clock:          store,
		IDGen:          store,
		Logger:         logger,
	})
	module.Store = store
	return module
}
