package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"modpanel/contexts/identity-access/account-security/domain/entities"
	domainerrors "modpanel/contexts/identity-access/account-security/domain/errors"
	"modpanel/contexts/identity-access/account-security/ports"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateModerator(ctx context.Context, moderator entities.Moderator) error {
	row := moderatorModelFromEntity(moderator)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrUsernameTaken
		}
		return r.logError("accounts_repo_create_failed", err, "username", moderator.Username)
	}
	return nil
}

func (r *Repository) GetModerator(ctx context.Context, username string) (entities.Moderator, error) {
	var row moderatorModel
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Moderator{}, domainerrors.ErrModeratorNotFound
		}
		return entities.Moderator{}, r.logError("accounts_repo_get_failed", err, "username", username)
	}
	return row.toEntity(), nil
}

func (r *Repository) FindModeratorByEmail(ctx context.Context, email string) (entities.Moderator, bool, error) {
	var row moderatorModel
	err := r.db.WithContext(ctx).Where("email = ? AND email <> ''", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Moderator{}, false, nil
		}
		return entities.Moderator{}, false, r.logError("accounts_repo_find_by_email_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) FindModeratorByResetToken(ctx context.Context, token string) (entities.Moderator, bool, error) {
	var row moderatorModel
	err := r.db.WithContext(ctx).Where("reset_token = ? AND reset_token <> ''", token).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Moderator{}, false, nil
		}
		return entities.Moderator{}, false, r.logError("accounts_repo_find_by_token_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListModerators(ctx context.Context) ([]entities.Moderator, error) {
	var rows []moderatorModel
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("accounts_repo_list_failed", err)
	}
	out := make([]entities.Moderator, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) ActiveModeratorUsernames(ctx context.Context) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).Model(&moderatorModel{}).
		Where("status = ?", entities.StatusActive).
		Order("username ASC").
		Pluck("username", &usernames).Error
	if err != nil {
		return nil, r.logError("accounts_repo_roster_failed", err)
	}
	return usernames, nil
}

func (r *Repository) CountAdmins(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&moderatorModel{}).
		Where("is_admin = ? OR role = ?", true, "admin").
		Count(&count).Error
	if err != nil {
		return 0, r.logError("accounts_repo_count_admins_failed", err)
	}
	return int(count), nil
}

// RecordFailedLogin increments the counter and sets the lock timestamp in
// guarded statements so racing failures can never double-lock or skip the
// threshold.
func (r *Repository) RecordFailedLogin(ctx context.Context, username string, threshold int, now time.Time) (int, bool, error) {
	result := r.db.WithContext(ctx).Model(&moderatorModel{}).
		Where("username = ?", username).
		Update("failed_login_attempts", gorm.Expr("failed_login_attempts + 1"))
	if result.Error != nil {
		return 0, false, r.logError("accounts_repo_failed_login_failed", result.Error, "username", username)
	}
	if result.RowsAffected == 0 {
		return 0, false, domainerrors.ErrModeratorNotFound
	}

	err := r.db.WithContext(ctx).Model(&moderatorModel{}).
		Where("username = ? AND failed_login_attempts >= ? AND locked_at IS NULL", username, threshold).
		Update("locked_at", now).Error
	if err != nil {
		return 0, false, r.logError("accounts_repo_lock_failed", err, "username", username)
	}

	moderator, err := r.GetModerator(ctx, username)
	if err != nil {
		return 0, false, err
	}
	return moderator.FailedLoginAttempts, moderator.Locked(), nil
}

func (r *Repository) RecordSuccessfulLogin(ctx context.Context, username string, now time.Time) error {
	return r.updateFields(ctx, username, map[string]any{
		"failed_login_attempts": 0,
		"locked_at":             nil,
		"last_login":            now,
	})
}

func (r *Repository) Unlock(ctx context.Context, username string) error {
	return r.updateFields(ctx, username, map[string]any{
		"failed_login_attempts": 0,
		"locked_at":             nil,
	})
}

func (r *Repository) UpdateCredentials(ctx context.Context, username string, update ports.CredentialUpdate) error {
	history, _ := json.Marshal(update.PasswordHistory)
	fields := map[string]any{
		"password_hash":        update.PasswordHash,
		"password_history":     string(history),
		"must_change_password": update.MustChangePassword,
	}
	if update.ClearLock {
		fields["failed_login_attempts"] = 0
		fields["locked_at"] = nil
	}
	if update.ClearResetToken {
		fields["reset_token"] = ""
		fields["reset_token_expires_at"] = nil
	}
	return r.updateFields(ctx, username, fields)
}

func (r *Repository) SetResetToken(ctx context.Context, username string, token string, expiresAt time.Time) error {
	return r.updateFields(ctx, username, map[string]any{
		"reset_token":            token,
		"reset_token_expires_at": expiresAt,
	})
}

func (r *Repository) SetRole(ctx context.Context, username string, role string, roles []string) error {
	encoded, _ := json.Marshal(roles)
	return r.updateFields(ctx, username, map[string]any{
		"role":  role,
		"roles": string(encoded),
	})
}

func (r *Repository) SetAdminFlag(ctx context.Context, username string, isAdmin bool) error {
	return r.updateFields(ctx, username, map[string]any{"is_admin": isAdmin})
}

func (r *Repository) SetStatus(ctx context.Context, username string, status string) error {
	return r.updateFields(ctx, username, map[string]any{"status": status})
}

func (r *Repository) SetLeaderFlags(ctx context.Context, username string, inGame bool, discord bool) error {
	return r.updateFields(ctx, username, map[string]any{
		"is_in_game_leader": inGame,
		"is_discord_leader": discord,
	})
}

func (r *Repository) SetTrainingManager(ctx context.Context, username string, enabled bool) error {
	return r.updateFields(ctx, username, map[string]any{"is_training_manager": enabled})
}

func (r *Repository) SetApplicationViewer(ctx context.Context, username string, enabled bool) error {
	return r.updateFields(ctx, username, map[string]any{"can_view_applications": enabled})
}

func (r *Repository) UpdateUsername(ctx context.Context, username string, newUsername string) error {
	result := r.db.WithContext(ctx).Model(&moderatorModel{}).
		Where("username = ?", username).
		Update("username", newUsername)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrUsernameTaken
		}
		return r.logError("accounts_repo_update_username_failed", result.Error, "username", username)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrModeratorNotFound
	}
	return nil
}

func (r *Repository) UpdateEmail(ctx context.Context, username string, email string) error {
	return r.updateFields(ctx, username, map[string]any{"email": email})
}

func (r *Repository) DeleteModerator(ctx context.Context, username string) error {
	result := r.db.WithContext(ctx).Where("username = ?", username).Delete(&moderatorModel{})
	if result.Error != nil {
		return r.logError("accounts_repo_delete_failed", result.Error, "username", username)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrModeratorNotFound
	}
	return nil
}

func (r *Repository) updateFields(ctx context.Context, username string, fields map[string]any) error {
	result := r.db.WithContext(ctx).Model(&moderatorModel{}).
		Where("username = ?", username).
		Updates(fields)
	if result.Error != nil {
		return r.logError("accounts_repo_update_failed", result.Error, "username", username)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrModeratorNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/account-security",
		"layer", "adapters/postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("account store operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
