package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	roleauthority "modpanel/contexts/identity-access/role-authority"

	"modpanel/contexts/identity-access/account-security/domain/entities"
	domainerrors "modpanel/contexts/identity-access/account-security/domain/errors"
	"modpanel/contexts/identity-access/account-security/ports"
)

const (
	defaultMaxLoginAttempts = 3
	defaultResetTokenTTL    = time.Hour
)

// Actor is the resolved identity of the caller, as carried by a verified
// bearer credential.
type Actor struct {
	Username          string
	Role              string
	Roles             []string
	IsAdmin           bool
	IsTrainingManager bool
	IsInGameLeader    bool
	IsDiscordLeader   bool
}

// Service owns account lifecycle and credential security: registration,
// login with sticky lockout, password change/reset flows, and moderator
// management gated by the role authority.
type Service struct {
	Repo             ports.Repository
	Roles            roleauthority.Table
	Tokens           TokenIssuer
	Notifier         ports.Notifier
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	MaxLoginAttempts int
	ResetTokenTTL    time.Duration
	Logger           *slog.Logger
}

type RegisterCommand struct {
	Username        string
	Email           string
	Password        string
	Role            string
	Roles           []string
	IsInGameLeader  bool
	IsDiscordLeader bool
}

type LoginCommand struct {
	Username string
	Password string
}

type LoginResult struct {
	AccessToken string
	Claims      Claims
}

func (s Service) Register(ctx context.Context, cmd RegisterCommand) (entities.Moderator, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return entities.Moderator{}, domainerrors.ErrInvalidRequest
	}
	role := strings.TrimSpace(cmd.Role)
	if role == "" {
		role = roleauthority.RoleModerator
	}
	if !s.Roles.Known(role) {
		return entities.Moderator{}, domainerrors.ErrUnknownRole
	}
	if err := ValidatePasswordStrength(cmd.Password); err != nil {
		return entities.Moderator{}, err
	}

	if _, err := s.Repo.GetModerator(ctx, username); err == nil {
		return entities.Moderator{}, domainerrors.ErrUsernameTaken
	}
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email != "" {
		if _, found, err := s.Repo.FindModeratorByEmail(ctx, email); err != nil {
			return entities.Moderator{}, err
		} else if found {
			return entities.Moderator{}, domainerrors.ErrEmailTaken
		}
	}

	hash, err := HashPassword(cmd.Password)
	if err != nil {
		return entities.Moderator{}, err
	}
	id, err := s.newID(ctx)
	if err != nil {
		return entities.Moderator{}, err
	}

	roles := normalizeRoles(cmd.Roles, role)
	moderator := entities.Moderator{
		ID:                  id,
		Username:            username,
		Email:               email,
		PasswordHash:        hash,
		Role:                s.Roles.EffectiveRole(roles),
		Roles:               roles,
		Status:              entities.StatusActive,
		IsInGameLeader:      cmd.IsInGameLeader,
		IsDiscordLeader:     cmd.IsDiscordLeader,
		CanViewApplications: true,
		// New accounts always set a fresh password on first use.
		MustChangePassword: true,
		CreatedAt:          s.now(),
	}
	if err := s.Repo.CreateModerator(ctx, moderator); err != nil {
		return entities.Moderator{}, err
	}
	resolveLogger(s.Logger).Info("moderator registered",
		"event", "accounts_moderator_registered",
		"module", "identity-access/account-security",
		"layer", "application",
		"username", username,
		"role", moderator.Role,
	)
	return moderator, nil
}

func (s Service) Login(ctx context.Context, cmd LoginCommand) (LoginResult, error) {
	logger := resolveLogger(s.Logger)
	username := strings.TrimSpace(cmd.Username)
	moderator, err := s.Repo.GetModerator(ctx, username)
	if err != nil {
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	// Lock and disable are checked before the password so a locked account
	// leaks nothing about credential validity.
	if moderator.Locked() {
		return LoginResult{}, domainerrors.ErrAccountLocked
	}
	if moderator.Status == entities.StatusDisabled {
		return LoginResult{}, domainerrors.ErrAccountDisabled
	}

	if !VerifyPassword(cmd.Password, moderator.PasswordHash) {
		attempts, locked, recordErr := s.Repo.RecordFailedLogin(ctx, username, s.maxAttempts(), s.now())
		if recordErr != nil {
			return LoginResult{}, recordErr
		}
		if locked {
			logger.Warn("account locked after repeated failures",
				"event", "accounts_lockout_triggered",
				"module", "identity-access/account-security",
				"layer", "application",
				"username", username,
				"failed_attempts", attempts,
			)
		}
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	if err := s.Repo.RecordSuccessfulLogin(ctx, username, s.now()); err != nil {
		return LoginResult{}, err
	}

	claims := Claims{
		Username:           moderator.Username,
		Role:               s.Roles.EffectiveRole(moderator.Roles),
		Roles:              moderator.Roles,
		IsAdmin:            moderator.IsAdmin,
		IsTrainingManager:  moderator.IsTrainingManager,
		IsInGameLeader:     moderator.IsInGameLeader,
		IsDiscordLeader:    moderator.IsDiscordLeader,
		MustChangePassword: moderator.MustChangePassword,
	}
	token, err := s.Tokens.Issue(claims, s.now())
	if err != nil {
		return LoginResult{}, err
	}
	logger.Info("moderator logged in",
		"event", "accounts_login_succeeded",
		"module", "identity-access/account-security",
		"layer", "application",
		"username", username,
	)
	return LoginResult{AccessToken: token, Claims: claims}, nil
}

// ChangePassword is the self-service flow: correct old password, strength
// policy, and the history check all pass before anything mutates.
func (s Service) ChangePassword(ctx context.Context, username string, oldPassword string, newPassword string) error {
	moderator, err := s.Repo.GetModerator(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if !VerifyPassword(oldPassword, moderator.PasswordHash) {
		return domainerrors.ErrIncorrectPassword
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	if passwordReused(newPassword, moderator.PasswordHistory) {
		return domainerrors.ErrPasswordReused
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdateCredentials(ctx, moderator.Username, ports.CredentialUpdate{
		PasswordHash:       hash,
		PasswordHistory:    entities.PushPasswordHistory(moderator.PasswordHistory, moderator.PasswordHash),
		MustChangePassword: false,
	})
}

// ResetPassword is the elevated flow targeting another account. Unlike the
// self-service change it forces a new password on next login.
func (s Service) ResetPassword(ctx context.Context, actor Actor, username string, newPassword string) error {
	if !s.isManagement(actor) {
		return domainerrors.ErrForbidden
	}
	moderator, err := s.Repo.GetModerator(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	if passwordReused(newPassword, moderator.PasswordHistory) {
		return domainerrors.ErrPasswordReused
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdateCredentials(ctx, moderator.Username, ports.CredentialUpdate{
		PasswordHash:       hash,
		PasswordHistory:    entities.PushPasswordHistory(moderator.PasswordHistory, moderator.PasswordHash),
		MustChangePassword: true,
	})
}

func (s Service) UnlockAccount(ctx context.Context, actor Actor, username string) error {
	if !s.Roles.IsTopTier(actor.Role, actor.IsAdmin) {
		return domainerrors.ErrForbidden
	}
	if _, err := s.Repo.GetModerator(ctx, strings.TrimSpace(username)); err != nil {
		return err
	}
	if err := s.Repo.Unlock(ctx, strings.TrimSpace(username)); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("account unlocked",
		"event", "accounts_unlocked",
		"module", "identity-access/account-security",
		"layer", "application",
		"username", username,
		"actor", actor.Username,
	)
	return nil
}

// RequestPasswordReset issues a single-use, time-boxed reset token and hands
// it to the notification sink. The token is returned so transports that
// deliver it out of band can do so.
func (s Service) RequestPasswordReset(ctx context.Context, username string, email string) (string, error) {
	moderator, err := s.Repo.GetModerator(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || moderator.Email != email {
		return "", domainerrors.ErrInvalidRequest
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)
	expires := s.now().Add(s.resetTTL())
	if err := s.Repo.SetResetToken(ctx, moderator.Username, token, expires); err != nil {
		return "", err
	}
	s.notify(ctx, moderator.Email, "Password reset requested",
		fmt.Sprintf("A password reset was requested for %s. The reset token expires in one hour.", moderator.Username))
	return token, nil
}

// ResetPasswordByToken redeems a reset token. On success the token, the
// forced-change flag, and any lockout state are cleared in one write.
func (s Service) ResetPasswordByToken(ctx context.Context, token string, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domainerrors.ErrResetTokenInvalid
	}
	moderator, found, err := s.Repo.FindModeratorByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrResetTokenInvalid
	}
	if moderator.ResetTokenExpiresAt == nil || s.now().After(*moderator.ResetTokenExpiresAt) {
		return domainerrors.ErrResetTokenExpired
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	if passwordReused(newPassword, moderator.PasswordHistory) {
		return domainerrors.ErrPasswordReused
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdateCredentials(ctx, moderator.Username, ports.CredentialUpdate{
		PasswordHash:       hash,
		PasswordHistory:    entities.PushPasswordHistory(moderator.PasswordHistory, moderator.PasswordHash),
		MustChangePassword: false,
		ClearLock:          true,
		ClearResetToken:    true,
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) newID(ctx context.Context) (string, error) {
	if s.IDGen == nil {
		return "", domainerrors.ErrInvalidRequest
	}
	return s.IDGen.NewID(ctx)
}

func (s Service) maxAttempts() int {
	if s.MaxLoginAttempts <= 0 {
		return defaultMaxLoginAttempts
	}
	return s.MaxLoginAttempts
}

func (s Service) resetTTL() time.Duration {
	if s.ResetTokenTTL <= 0 {
		return defaultResetTokenTTL
	}
	return s.ResetTokenTTL
}

// isManagement gates elevated account management: mmod and above, or the
// admin flag.
func (s Service) isManagement(actor Actor) bool {
	return s.Roles.CanReviewApplications(actor.Role, actor.IsAdmin)
}

// notify delivers best-effort. A failed notification is logged and dropped,
// never surfaced to the caller.
func (s Service) notify(ctx context.Context, recipient string, subject string, body string) {
	if s.Notifier == nil || strings.TrimSpace(recipient) == "" {
		return
	}
	if err := s.Notifier.Send(ctx, recipient, subject, body); err != nil {
		resolveLogger(s.Logger).Warn("notification delivery failed",
			"event", "accounts_notification_failed",
			"module", "identity-access/account-security",
			"layer", "application",
			"recipient", recipient,
			"error", err.Error(),
		)
	}
}

func normalizeRoles(roles []string, fallback string) []string {
	var out []string
	seen := map[string]bool{}
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		out = append(out, role)
	}
	if len(out) == 0 {
		out = []string{fallback}
	}
	return out
}
