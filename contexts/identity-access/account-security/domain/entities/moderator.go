package entities

import "time"

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// PasswordHistoryLimit bounds the ring of prior credential hashes kept per
// account, most recent first.
const PasswordHistoryLimit = 10

// Moderator is the account record owned by the identity-access context.
// Lockout is sticky: an account is locked iff LockedAt is set, until an
// explicit unlock clears it.
type Moderator struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	PasswordHistory     []string
	Role                string
	Roles               []string
	Status              string
	IsTrainingManager   bool
	IsInGameLeader      bool
	IsDiscordLeader     bool
	IsAdmin             bool
	CanViewApplications bool
	FailedLoginAttempts int
	LockedAt            *time.Time
	ResetToken          string
	ResetTokenExpiresAt *time.Time
	MustChangePassword  bool
	CreatedAt           time.Time
	LastLogin           *time.Time
}

// Locked reports whether the account is currently locked out.
func (m Moderator) Locked() bool {
	return m.LockedAt != nil
}

// PushPasswordHistory returns the history ring with the given hash
// prepended and the oldest entries dropped past the limit.
func PushPasswordHistory(history []string, hash string) []string {
	out := append([]string{hash}, history...)
	if len(out) > PasswordHistoryLimit {
		out = out[:PasswordHistoryLimit]
	}
	return out
}
