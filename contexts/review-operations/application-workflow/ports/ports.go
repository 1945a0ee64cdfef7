package ports

import (
	"context"
	"time"

	"modpanel/contexts/review-operations/application-workflow/domain/entities"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator issues unique identifiers for applications and audit entries.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Notifier delivers applicant-facing notifications. Delivery is best-effort;
// the service logs and drops failures.
type Notifier interface {
	Send(ctx context.Context, recipient string, subject string, body string) error
}

// Directory resolves per-request viewer flags from the identity context. The
// flags are re-read on every call, never cached across requests.
type Directory interface {
	ViewerFlags(ctx context.Context, username string) (canView bool, isTrainingManager bool, err error)
}

// StatusUpdate carries the reviewed-by stamp written together with a status
// transition.
type StatusUpdate struct {
	Status     string
	ReviewedBy string
	ReviewedAt time.Time
}

// Repository is the application store. The write operations marked atomic
// must be single indivisible store operations; concurrent callers observe
// either the before or the after state, never a partial one.
type Repository interface {
	CreateApplication(ctx context.Context, application entities.Application) error
	GetApplication(ctx context.Context, id string) (entities.Application, error)
	// ListApplications returns applications newest-first, optionally filtered
	// by a case-insensitive substring over name, discord handle, in-game
	// name, and server.
	ListApplications(ctx context.Context, search string) ([]entities.Application, error)
	DeleteApplication(ctx context.Context, id string) error

	// UpsertVote is atomic: it replaces the moderator's existing ledger entry
	// in place or appends a new one, never duplicating.
	UpsertVote(ctx context.Context, id string, vote entities.Vote) error
	// BumpPending is atomic: it flips awaiting_review to pending and is a
	// no-op for every other status. Returns whether the flip happened.
	BumpPending(ctx context.Context, id string) (bool, error)

	AppendComment(ctx context.Context, id string, comment entities.Comment) error
	UpdateStatus(ctx context.Context, id string, update StatusUpdate) error
	SetTeamApproval(ctx context.Context, id string, kind string, approved bool, approvedBy string) error
	// AddToViewedBy is an atomic add-to-set; re-adding is a no-op.
	AddToViewedBy(ctx context.Context, id string, username string) error

	AppendAuditLog(ctx context.Context, entry entities.AuditLogEntry) error
	ListAuditLogs(ctx context.Context) ([]entities.AuditLogEntry, error)

	GetIntakeSettings(ctx context.Context) (entities.IntakeSettings, error)
	UpdateIntakeSettings(ctx context.Context, settings entities.IntakeSettings) error
}
