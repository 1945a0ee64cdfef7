package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"modpanel/contexts/review-operations/application-workflow/domain/entities"
	domainerrors "modpanel/contexts/review-operations/application-workflow/domain/errors"
	"modpanel/contexts/review-operations/application-workflow/ports"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

const auditLogQueryLimit = 500

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

func (r *Repository) CreateApplication(ctx context.Context, application entities.Application) error {
	row := applicationModelFromEntity(application)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("workflow_repo_create_failed", err, "application_id", application.ID)
	}
	return nil
}

func (r *Repository) GetApplication(ctx context.Context, id string) (entities.Application, error) {
	var row applicationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Application{}, domainerrors.ErrApplicationNotFound
		}
		return entities.Application{}, r.logError("workflow_repo_get_failed", err, "application_id", id)
	}
	application := row.toEntity()
	if err := r.loadLedgers(ctx, []string{id}, map[string]*entities.Application{id: &application}); err != nil {
		return entities.Application{}, err
	}
	return application, nil
}

func (r *Repository) ListApplications(ctx context.Context, search string) ([]entities.Application, error) {
	query := r.db.WithContext(ctx).Model(&applicationModel{}).Order("submitted_at DESC")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"name ILIKE ? OR discord_handle ILIKE ? OR ingame_name ILIKE ? OR server ILIKE ?",
			like, like, like, like,
		)
	}
	var rows []applicationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.logError("workflow_repo_list_failed", err)
	}

	out := make([]entities.Application, len(rows))
	ids := make([]string, 0, len(rows))
	byID := make(map[string]*entities.Application, len(rows))
	for i, row := range rows {
		out[i] = row.toEntity()
		ids = append(ids, row.ID)
		byID[row.ID] = &out[i]
	}
	if err := r.loadLedgers(ctx, ids, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) DeleteApplication(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&applicationModel{})
		if result.Error != nil {
			return r.logError("workflow_repo_delete_failed", result.Error, "application_id", id)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrApplicationNotFound
		}
		for _, model := range []any{&voteModel{}, &commentModel{}, &viewerModel{}} {
			if err := tx.Where("application_id = ?", id).Delete(model).Error; err != nil {
				return r.logError("workflow_repo_delete_ledger_failed", err, "application_id", id)
			}
		}
		return nil
	})
}

// UpsertVote relies on the (application_id, moderator) unique index: one
// statement either inserts the vote or replaces the existing one in place.
func (r *Repository) UpsertVote(ctx context.Context, id string, vote entities.Vote) error {
	if err := r.requireApplication(ctx, id); err != nil {
		return err
	}
	row := voteModel{
		ApplicationID: id,
		Moderator:     vote.Moderator,
		Vote:          vote.Vote,
		Timestamp:     vote.Timestamp,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "application_id"}, {Name: "moderator"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote", "timestamp"}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("workflow_repo_vote_failed", err, "application_id", id)
	}
	return nil
}

// BumpPending is a guarded update; only the caller that actually flips the
// row observes RowsAffected > 0.
func (r *Repository) BumpPending(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&applicationModel{}).
		Where("id = ? AND status = ?", id, entities.StatusAwaitingReview).
		Update("status", entities.StatusPending)
	if result.Error != nil {
		return false, r.logError("workflow_repo_bump_failed", result.Error, "application_id", id)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}
	if err := r.requireApplication(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *Repository) AppendComment(ctx context.Context, id string, comment entities.Comment) error {
	if err := r.requireApplication(ctx, id); err != nil {
		return err
	}
	row := commentModel{
		ApplicationID: id,
		Moderator:     comment.Moderator,
		Comment:       comment.Comment,
		Timestamp:     comment.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("workflow_repo_comment_failed", err, "application_id", id)
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, update ports.StatusUpdate) error {
	result := r.db.WithContext(ctx).Model(&applicationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      update.Status,
			"reviewed_by": update.ReviewedBy,
			"reviewed_at": update.ReviewedAt,
		})
	if result.Error != nil {
		return r.logError("workflow_repo_status_failed", result.Error, "application_id", id)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrApplicationNotFound
	}
	return nil
}

func (r *Repository) SetTeamApproval(ctx context.Context, id string, kind string, approved bool, approvedBy string) error {
	var fields map[string]any
	switch kind {
	case entities.ApprovalDiscord:
		fields = map[string]any{"discord_approved": approved, "discord_approved_by": approvedBy}
	case entities.ApprovalInGame:
		fields = map[string]any{"in_game_approved": approved, "in_game_approved_by": approvedBy}
	default:
		return domainerrors.ErrInvalidApprovalType
	}
	result := r.db.WithContext(ctx).Model(&applicationModel{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return r.logError("workflow_repo_approval_failed", result.Error, "application_id", id)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrApplicationNotFound
	}
	return nil
}

// AddToViewedBy is insert-or-ignore on the (application_id, username) index.
func (r *Repository) AddToViewedBy(ctx context.Context, id string, username string) error {
	if err := r.requireApplication(ctx, id); err != nil {
		return err
	}
	row := viewerModel{ApplicationID: id, Username: username}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return r.logError("workflow_repo_viewer_failed", err, "application_id", id)
	}
	return nil
}

func (r *Repository) AppendAuditLog(ctx context.Context, entry entities.AuditLogEntry) error {
	row := auditLogModel{
		ID:              entry.ID,
		Action:          entry.Action,
		ApplicationID:   entry.ApplicationID,
		ApplicationName: entry.ApplicationName,
		PerformedBy:     entry.PerformedBy,
		Comment:         entry.Comment,
		OldStatus:       entry.OldStatus,
		NewStatus:       entry.NewStatus,
		CreatedAt:       entry.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("workflow_repo_audit_failed", err, "application_id", entry.ApplicationID)
	}
	return nil
}

func (r *Repository) ListAuditLogs(ctx context.Context) ([]entities.AuditLogEntry, error) {
	var rows []auditLogModel
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(auditLogQueryLimit).Find(&rows).Error
	if err != nil {
		return nil, r.logError("workflow_repo_audit_list_failed", err)
	}
	out := make([]entities.AuditLogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.AuditLogEntry{
			ID:              row.ID,
			Action:          row.Action,
			ApplicationID:   row.ApplicationID,
			ApplicationName: row.ApplicationName,
			PerformedBy:     row.PerformedBy,
			Comment:         row.Comment,
			OldStatus:       row.OldStatus,
			NewStatus:       row.NewStatus,
			CreatedAt:       row.CreatedAt,
		})
	}
	return out, nil
}

func (r *Repository) GetIntakeSettings(ctx context.Context) (entities.IntakeSettings, error) {
	var row intakeSettingsModel
	err := r.db.WithContext(ctx).Where("id = ?", intakeSettingsID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.IntakeSettings{ApplicationsEnabled: true}, nil
		}
		return entities.IntakeSettings{}, r.logError("workflow_repo_settings_failed", err)
	}
	return entities.IntakeSettings{
		ApplicationsEnabled: row.ApplicationsEnabled,
		UpdatedBy:           row.UpdatedBy,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

func (r *Repository) UpdateIntakeSettings(ctx context.Context, settings entities.IntakeSettings) error {
	row := intakeSettingsModel{
		ID:                  intakeSettingsID,
		ApplicationsEnabled: settings.ApplicationsEnabled,
		UpdatedBy:           settings.UpdatedBy,
		UpdatedAt:           settings.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return r.logError("workflow_repo_settings_update_failed", err)
	}
	return nil
}

func (r *Repository) requireApplication(ctx context.Context, id string) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&applicationModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return r.logError("workflow_repo_exists_failed", err, "application_id", id)
	}
	if count == 0 {
		return domainerrors.ErrApplicationNotFound
	}
	return nil
}

// loadLedgers batch-loads votes, comments, and viewers for the given
// applications.
func (r *Repository) loadLedgers(ctx context.Context, ids []string, byID map[string]*entities.Application) error {
	if len(ids) == 0 {
		return nil
	}
	var votes []voteModel
	if err := r.db.WithContext(ctx).Where("application_id IN ?", ids).Order("timestamp ASC").Find(&votes).Error; err != nil {
		return r.logError("workflow_repo_votes_load_failed", err)
	}
	for _, row := range votes {
		if app, ok := byID[row.ApplicationID]; ok {
			app.Votes = append(app.Votes, entities.Vote{
				Moderator: row.Moderator,
				Vote:      row.Vote,
				Timestamp: row.Timestamp,
			})
		}
	}

	var comments []commentModel
	if err := r.db.WithContext(ctx).Where("application_id IN ?", ids).Order("seq ASC").Find(&comments).Error; err != nil {
		return r.logError("workflow_repo_comments_load_failed", err)
	}
	for _, row := range comments {
		if app, ok := byID[row.ApplicationID]; ok {
			app.Comments = append(app.Comments, entities.Comment{
				Moderator: row.Moderator,
				Comment:   row.Comment,
				Timestamp: row.Timestamp,
			})
		}
	}

	var viewers []viewerModel
	if err := r.db.WithContext(ctx).Where("application_id IN ?", ids).Find(&viewers).Error; err != nil {
		return r.logError("workflow_repo_viewers_load_failed", err)
	}
	for _, row := range viewers {
		if app, ok := byID[row.ApplicationID]; ok {
			app.ViewedBy = append(app.ViewedBy, row.Username)
		}
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "review-operations/application-workflow",
		"layer", "adapters/postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("application store operation failed", fields...)
	return err
}
