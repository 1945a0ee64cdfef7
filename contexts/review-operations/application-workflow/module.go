package applicationworkflow

import (
	"log/slog"

	roleauthority "modpanel/contexts/identity-access/role-authority"

	httpadapter "modpanel/contexts/review-operations/application-workflow/adapters/http"
	"modpanel/contexts/review-operations/application-workflow/adapters/memory"
	"modpanel/contexts/review-operations/application-workflow/application"
	"modpanel/contexts/review-operations/application-workflow/ports"
)

// Module is the application-workflow composition root exposed to runtime
// wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Directory   ports.Directory
	Notifier    ports.Notifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Roles       roleauthority.Table
	Logger      *slog.Logger
}

// NewModule wires the workflow service and transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	roles := deps.Roles
	if roles == nil {
		roles = roleauthority.Default()
	}
	service := application.Service{
		Repo:      deps.Repository,
		Roles:     roles,
		Directory: deps.Directory,
		Notifier:  deps.Notifier,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
