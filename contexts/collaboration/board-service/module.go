package boardservice

import (
	"log/slog"

	httpadapter "retroboard/contexts/collaboration/board-service/adapters/http"
	"retroboard/contexts/collaboration/board-service/adapters/memory"
	"retroboard/contexts/collaboration/board-service/application"
	"retroboard/contexts/collaboration/board-service/domain/entities"
	"retroboard/contexts/collaboration/board-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Items          ports.ItemRepository
	ActionItems    ports.ActionItemRepository
	Retrospectives ports.RetrospectiveReader
	Hub            ports.EventBroadcaster
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	itemService := application.ItemService{
		Items:          deps.Items,
		Retrospectives: deps.Retrospectives,
		Hub:            deps.Hub,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		Logger:         deps.Logger,
	}
	actionItemService := application.ActionItemService{
		ActionItems:    deps.ActionItems,
		Items:          deps.Items,
		Retrospectives: deps.Retrospectives,
		Hub:            deps.Hub,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Items:       itemService,
			ActionItems: actionItemService,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(
	items []entities.Item,
	actionItems []entities.ActionItem,
	hub ports.EventBroadcaster,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(items, actionItems)
	module := NewModule(Dependencies{
		Items:          store,
		ActionItems:    store,
		Retrospectives: store,
		Hub:            hub,
		Clock:          store,
		IDGen:          store,
		Logger:         logger,
	})
	module.Store = store
	return module
}
