package ports

import (
	"context"
	"time"

	"modpanel/contexts/identity-access/account-security/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Notifier is the fire-and-forget notification sink. Delivery failures are
// logged by callers and never fail the triggering operation.
type Notifier interface {
	Send(ctx context.Context, recipient string, subject string, body string) error
}

// CredentialUpdate is one atomic credential mutation. Zero-value booleans
// leave the corresponding fields untouched.
type CredentialUpdate struct {
	PasswordHash       string
	PasswordHistory    []string
	MustChangePassword bool
	ClearLock          bool
	ClearResetToken    bool
}

// Repository is the persistent store for moderator accounts. Every method
// is a single atomic store operation; multi-field updates touch one record.
type Repository interface {
	CreateModerator(ctx context.Context, moderator entities.Moderator) error
	GetModerator(ctx context.Context, username string) (entities.Moderator, error)
	FindModeratorByEmail(ctx context.Context, email string) (entities.Moderator, bool, error)
	FindModeratorByResetToken(ctx context.Context, token string) (entities.Moderator, bool, error)
	ListModerators(ctx context.Context) ([]entities.Moderator, error)
	ActiveModeratorUsernames(ctx context.Context) ([]string, error)
	CountAdmins(ctx context.Context) (int, error)

	// RecordFailedLogin atomically increments the failed-attempt counter and
	// sets the lock timestamp once the counter reaches the threshold. It
	// returns the post-increment counter and whether the account is locked.
	RecordFailedLogin(ctx context.Context, username string, threshold int, now time.Time) (int, bool, error)
	// RecordSuccessfulLogin clears the counter and any lock, and stamps
	// last_login.
	RecordSuccessfulLogin(ctx context.Context, username string, now time.Time) error
	Unlock(ctx context.Context, username string) error

	UpdateCredentials(ctx context.Context, username string, update CredentialUpdate) error
	SetResetToken(ctx context.Context, username string, token string, expiresAt time.Time) error

	SetRole(ctx context.Context, username string, role string, roles []string) error
	SetAdminFlag(ctx context.Context, username string, isAdmin bool) error
	SetStatus(ctx context.Context, username string, status string) error
	SetLeaderFlags(ctx context.Context, username string, inGame bool, discord bool) error
	SetTrainingManager(ctx context.Context, username string, enabled bool) error
	SetApplicationViewer(ctx context.Context, username string, enabled bool) error
	UpdateUsername(ctx context.Context, username string, newUsername string) error
	UpdateEmail(ctx context.Context, username string, email string) error
	DeleteModerator(ctx context.Context, username string) error
}
