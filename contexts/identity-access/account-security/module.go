package accountsecurity

import (
	"log/slog"
	"time"

	roleauthority "modpanel/contexts/identity-access/role-authority"

	httpadapter "modpanel/contexts/identity-access/account-security/adapters/http"
	"modpanel/contexts/identity-access/account-security/adapters/memory"
	"modpanel/contexts/identity-access/account-security/application"
	"modpanel/contexts/identity-access/account-security/ports"
)

// Module is the account-security composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository       ports.Repository
	Notifier         ports.Notifier
	Clock            ports.Clock
	IDGenerator      ports.IDGenerator
	Roles            roleauthority.Table
	TokenSecret      []byte
	TokenTTL         time.Duration
	MaxLoginAttempts int
	ResetTokenTTL    time.Duration
	Logger           *slog.Logger
}

// NewModule wires the account-security service and transport handler using
// explicit ports.
func NewModule(deps Dependencies) Module {
	roles := deps.Roles
	if roles == nil {
		roles = roleauthority.Default()
	}
	service := application.Service{
		Repo:             deps.Repository,
		Roles:            roles,
		Tokens:           application.TokenIssuer{Secret: deps.TokenSecret, TTL: deps.TokenTTL},
		Notifier:         deps.Notifier,
		Clock:            deps.Clock,
		IDGen:            deps.IDGenerator,
		MaxLoginAttempts: deps.MaxLoginAttempts,
		ResetTokenTTL:    deps.ResetTokenTTL,
		Logger:           deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(tokenSecret []byte, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Clock:       store,
		IDGenerator: store,
		TokenSecret: tokenSecret,
		Logger:      logger,
	})
	module.Store = store
	return module
}
