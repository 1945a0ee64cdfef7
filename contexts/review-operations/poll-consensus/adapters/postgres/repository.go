package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"modpanel/contexts/review-operations/poll-consensus/domain/entities"
	domainerrors "modpanel/contexts/review-operations/poll-consensus/domain/errors"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

const archiveQueryLimit = 100

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

func (r *Repository) CreatePoll(ctx context.Context, poll entities.Poll) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := pollModel{
			ID:         poll.ID,
			Question:   poll.Question,
			ShowVoters: poll.ShowVoters,
			CreatedBy:  poll.CreatedBy,
			CreatedAt:  poll.CreatedAt,
			ExpiresAt:  poll.ExpiresAt,
			IsActive:   poll.IsActive,
		}
		if err := tx.Create(&row).Error; err != nil {
			return r.logError("polls_repo_create_failed", err, "poll_id", poll.ID)
		}
		for i, option := range poll.Options {
			optionRow := pollOptionModel{PollID: poll.ID, Idx: i, Text: option.Text}
			if err := tx.Create(&optionRow).Error; err != nil {
				return r.logError("polls_repo_option_failed", err, "poll_id", poll.ID)
			}
		}
		return nil
	})
}

func (r *Repository) GetPoll(ctx context.Context, id string) (entities.Poll, error) {
	var row pollModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Poll{}, domainerrors.ErrPollNotFound
		}
		return entities.Poll{}, r.logError("polls_repo_get_failed", err, "poll_id", id)
	}
	poll := row.toEntity()
	if err := r.loadDetails(ctx, []string{id}, map[string]*entities.Poll{id: &poll}); err != nil {
		return entities.Poll{}, err
	}
	return poll, nil
}

func (r *Repository) ListActivePolls(ctx context.Context) ([]entities.Poll, error) {
	var rows []pollModel
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, r.logError("polls_repo_list_failed", err)
	}
	out := make([]entities.Poll, len(rows))
	ids := make([]string, 0, len(rows))
	byID := make(map[string]*entities.Poll, len(rows))
	for i, row := range rows {
		out[i] = row.toEntity()
		ids = append(ids, row.ID)
		byID[row.ID] = &out[i]
	}
	if err := r.loadDetails(ctx, ids, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) CountActivePolls(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&pollModel{}).Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return 0, r.logError("polls_repo_count_failed", err)
	}
	return int(count), nil
}

func (r *Repository) DeletePoll(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&pollModel{})
		if result.Error != nil {
			return r.logError("polls_repo_delete_failed", result.Error, "poll_id", id)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPollNotFound
		}
		for _, model := range []any{&pollOptionModel{}, &pollVoteModel{}, &pollViewerModel{}} {
			if err := tx.Where("poll_id = ?", id).Delete(model).Error; err != nil {
				return r.logError("polls_repo_delete_detail_failed", err, "poll_id", id)
			}
		}
		return nil
	})
}

// AddVote locks the poll row, so the active check, the option range check,
// and the insert commit or fail as one unit against concurrent closes.
func (r *Repository) AddVote(ctx context.Context, id string, optionIndex int, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row pollModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrPollNotFound
			}
			return r.logError("polls_repo_vote_lock_failed", err, "poll_id", id)
		}
		if !row.IsActive {
			return domainerrors.ErrPollClosed
		}
		var optionCount int64
		if err := tx.Model(&pollOptionModel{}).Where("poll_id = ?", id).Count(&optionCount).Error; err != nil {
			return r.logError("polls_repo_vote_options_failed", err, "poll_id", id)
		}
		if optionIndex < 0 || optionIndex >= int(optionCount) {
			return domainerrors.ErrInvalidOption
		}
		vote := pollVoteModel{
			PollID:      id,
			Username:    username,
			OptionIndex: optionIndex,
			VotedAt:     time.Now().UTC(),
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
		if result.Error != nil {
			return r.logError("polls_repo_vote_failed", result.Error, "poll_id", id)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAlreadyVoted
		}
		return nil
	})
}

// Deactivate is the compare-and-flip guard of the closing protocol.
func (r *Repository) Deactivate(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&pollModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, r.logError("polls_repo_deactivate_failed", result.Error, "poll_id", id)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&pollModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, r.logError("polls_repo_deactivate_check_failed", err, "poll_id", id)
	}
	if count == 0 {
		return false, domainerrors.ErrPollNotFound
	}
	return false, nil
}

func (r *Repository) ArchivePoll(ctx context.Context, archived entities.ArchivedPoll) error {
	row := archivedPollModel{
		ID:        archived.ID,
		Question:  archived.Question,
		Outcome:   archived.Outcome,
		CreatedBy: archived.CreatedBy,
		ClosedAt:  archived.ClosedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("polls_repo_archive_failed", err, "poll_id", archived.ID)
	}
	return nil
}

func (r *Repository) ListArchivedPolls(ctx context.Context) ([]entities.ArchivedPoll, error) {
	var rows []archivedPollModel
	err := r.db.WithContext(ctx).Order("closed_at DESC").Limit(archiveQueryLimit).Find(&rows).Error
	if err != nil {
		return nil, r.logError("polls_repo_archive_list_failed", err)
	}
	out := make([]entities.ArchivedPoll, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.ArchivedPoll{
			ID:        row.ID,
			Question:  row.Question,
			Outcome:   row.Outcome,
			CreatedBy: row.CreatedBy,
			ClosedAt:  row.ClosedAt,
		})
	}
	return out, nil
}

func (r *Repository) MarkViewed(ctx context.Context, id string, username string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&pollModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return r.logError("polls_repo_viewed_check_failed", err, "poll_id", id)
	}
	if count == 0 {
		return domainerrors.ErrPollNotFound
	}
	row := pollViewerModel{PollID: id, Username: username}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return r.logError("polls_repo_viewed_failed", err, "poll_id", id)
	}
	return nil
}

func (r *Repository) UnviewedCount(ctx context.Context, username string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&pollModel{}).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", r.db.Model(&pollViewerModel{}).Select("poll_id").Where("username = ?", username)).
		Count(&count).Error
	if err != nil {
		return 0, r.logError("polls_repo_unviewed_failed", err)
	}
	return int(count), nil
}

// loadDetails batch-loads options, votes, and viewers for the given polls.
func (r *Repository) loadDetails(ctx context.Context, ids []string, byID map[string]*entities.Poll) error {
	if len(ids) == 0 {
		return nil
	}
	var options []pollOptionModel
	if err := r.db.WithContext(ctx).Where("poll_id IN ?", ids).Order("idx ASC").Find(&options).Error; err != nil {
		return r.logError("polls_repo_options_load_failed", err)
	}
	for _, row := range options {
		if poll, ok := byID[row.PollID]; ok {
			poll.Options = append(poll.Options, entities.PollOption{Text: row.Text})
		}
	}

	var votes []pollVoteModel
	if err := r.db.WithContext(ctx).Where("poll_id IN ?", ids).Order("voted_at ASC").Find(&votes).Error; err != nil {
		return r.logError("polls_repo_votes_load_failed", err)
	}
	for _, row := range votes {
		poll, ok := byID[row.PollID]
		if !ok || row.OptionIndex < 0 || row.OptionIndex >= len(poll.Options) {
			continue
		}
		poll.Options[row.OptionIndex].Votes = append(poll.Options[row.OptionIndex].Votes, row.Username)
	}

	var viewers []pollViewerModel
	if err := r.db.WithContext(ctx).Where("poll_id IN ?", ids).Find(&viewers).Error; err != nil {
		return r.logError("polls_repo_viewers_load_failed", err)
	}
	for _, row := range viewers {
		if poll, ok := byID[row.PollID]; ok {
			poll.ViewedBy = append(poll.ViewedBy, row.Username)
		}
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "review-operations/poll-consensus",
		"layer", "adapters/postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("poll store operation failed", fields...)
	return err
}
