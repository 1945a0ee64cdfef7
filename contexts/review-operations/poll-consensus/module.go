package pollconsensus

import (
	"context"
	"log/slog"
	"time"

	roleauthority "modpanel/contexts/identity-access/role-authority"

	httpadapter "modpanel/contexts/review-operations/poll-consensus/adapters/http"
	"modpanel/contexts/review-operations/poll-consensus/adapters/memory"
	"modpanel/contexts/review-operations/poll-consensus/application"
	"modpanel/contexts/review-operations/poll-consensus/ports"
)

// Module is the poll-consensus composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository   ports.Repository
	Roster       ports.Roster
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Roles        roleauthority.Table
	PollDuration time.Duration
	Logger       *slog.Logger
}

// NewModule wires the poll service and transport handler using explicit
// ports. A nil Roster disables the consensus check; polls then close only by
// expiry or an explicit close.
func NewModule(deps Dependencies) Module {
	roles := deps.Roles
	if roles == nil {
		roles = roleauthority.Default()
	}
	roster := deps.Roster
	if roster == nil {
		roster = emptyRoster{}
	}
	service := application.Service{
		Repo:         deps.Repository,
		Roster:       roster,
		Roles:        roles,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		PollDuration: deps.PollDuration,
		Logger:       deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters.
func NewInMemoryModule(roster ports.Roster, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Roster:      roster,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}

type emptyRoster struct{}

func (emptyRoster) ActiveModeratorUsernames(ctx context.Context) ([]string, error) {
	return nil, nil
}
