package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	accountsecurity "modpanel/contexts/identity-access/account-security"
	accountspostgres "modpanel/contexts/identity-access/account-security/adapters/postgres"
	accountsports "modpanel/contexts/identity-access/account-security/ports"
	applicationworkflow "modpanel/contexts/review-operations/application-workflow"
	workflowpostgres "modpanel/contexts/review-operations/application-workflow/adapters/postgres"
	pollconsensus "modpanel/contexts/review-operations/poll-consensus"
	pollpostgres "modpanel/contexts/review-operations/poll-consensus/adapters/postgres"
	pollapp "modpanel/contexts/review-operations/poll-consensus/application"
	"modpanel/internal/platform/config"
	"modpanel/internal/platform/db"
	"modpanel/internal/platform/httpserver"
	"modpanel/internal/platform/notify"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	polls         pollapp.Service
	sweepInterval time.Duration
	logger        *slog.Logger
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
	if err := migrate(pg); err != nil {
		return nil, err
	}

	notifier := buildNotifier(cfg, logger)

	accountsRepo := accountspostgres.NewRepository(pg.DB, logger)
	accounts := accountsecurity.NewModule(accountsecurity.Dependencies{
		Repository:       accountsRepo,
		Notifier:         notifier,
		Clock:            accountspostgres.SystemClock{},
		IDGenerator:      accountspostgres.UUIDGenerator{},
		TokenSecret:      cfg.TokenSecret,
		TokenTTL:         cfg.TokenTTL,
		MaxLoginAttempts: cfg.MaxLoginAttempts,
		ResetTokenTTL:    cfg.ResetTokenTTL,
		Logger:           logger,
	})

	workflowRepo := workflowpostgres.NewRepository(pg.DB, logger)
	workflow := applicationworkflow.NewModule(applicationworkflow.Dependencies{
		Repository:  workflowRepo,
		Directory:   moderatorDirectory{accounts: accountsRepo},
		Notifier:    notifier,
		Clock:       workflowpostgres.SystemClock{},
		IDGenerator: workflowpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	pollRepo := pollpostgres.NewRepository(pg.DB, logger)
	polls := pollconsensus.NewModule(pollconsensus.Dependencies{
		Repository:   pollRepo,
		Roster:       accounts.Service,
		Clock:        pollpostgres.SystemClock{},
		IDGenerator:  pollpostgres.UUIDGenerator{},
		PollDuration: cfg.PollDuration,
		Logger:       logger,
	})

	server := httpserver.New(accounts, workflow, polls, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

// BuildWorker wires the poll expiry sweeper. It shares the poll service with
// the API process but runs no HTTP surface.
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
	if err := migrate(pg); err != nil {
		return nil, err
	}

	pollRepo := pollpostgres.NewRepository(pg.DB, logger)
	polls := pollconsensus.NewModule(pollconsensus.Dependencies{
		Repository:   pollRepo,
		Clock:        pollpostgres.SystemClock{},
		IDGenerator:  pollpostgres.UUIDGenerator{},
		PollDuration: cfg.PollDuration,
		Logger:       logger,
	})

	return &WorkerApp{
		postgres:      pg,
		polls:         polls.Service,
		sweepInterval: cfg.PollSweepInterval,
		logger:        logger,
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
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"sweep_interval", w.sweepInterval.String(),
	)

	for {
		closed, err := w.polls.CloseExpired(ctx)
		if err != nil {
			return err
		}
		if closed > 0 {
			w.logger.Info("expired polls swept",
				"event", "bootstrap_poll_sweep",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"closed", closed,
			)
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

func migrate(pg *db.Postgres) error {
	if err := accountspostgres.Migrate(pg.DB); err != nil {
		return err
	}
	if err := workflowpostgres.Migrate(pg.DB); err != nil {
		return err
	}
	return pollpostgres.Migrate(pg.DB)
}

func buildNotifier(cfg config.Config, logger *slog.Logger) accountsports.Notifier {
	if cfg.DiscordBotToken != "" && cfg.DiscordChannelID != "" {
		notifier, err := notify.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordChannelID)
		if err == nil {
			return notifier
		}
		logger.Warn("discord notifier unavailable, falling back to log sink",
			"event", "bootstrap_notifier_fallback",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
	}
	return notify.LogNotifier{Logger: logger}
}

// moderatorDirectory resolves per-request viewer flags straight from the
// account store so a revoked flag takes effect immediately, not at token
// refresh.
type moderatorDirectory struct {
	accounts accountsports.Repository
}

func (d moderatorDirectory) ViewerFlags(ctx context.Context, username string) (bool, bool, error) {
	moderator, err := d.accounts.GetModerator(ctx, username)
	if err != nil {
		return false, false, err
	}
	return moderator.CanViewApplications, moderator.IsTrainingManager, nil
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
