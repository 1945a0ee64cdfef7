package postgresadapter

import (
	"time"

	"modpanel/contexts/review-operations/poll-consensus/domain/entities"
)

type pollModel struct {
	ID         string    `gorm:"primaryKey;column:id"`
	Question   string    `gorm:"column:question"`
	ShowVoters bool      `gorm:"column:show_voters"`
	CreatedBy  string    `gorm:"column:created_by"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	ExpiresAt  time.Time `gorm:"column:expires_at;index"`
	IsActive   bool      `gorm:"column:is_active;index"`
}

func (pollModel) TableName() string { return "polls" }

type pollOptionModel struct {
	PollID string `gorm:"column:poll_id;uniqueIndex:idx_poll_options_poll_idx"`
	Idx    int    `gorm:"column:idx;uniqueIndex:idx_poll_options_poll_idx"`
	Text   string `gorm:"column:text"`
}

func (pollOptionModel) TableName() string { return "poll_options" }

type pollVoteModel struct {
	PollID      string    `gorm:"column:poll_id;uniqueIndex:idx_poll_votes_poll_username"`
	Username    string    `gorm:"column:username;uniqueIndex:idx_poll_votes_poll_username"`
	OptionIndex int       `gorm:"column:option_index"`
	VotedAt     time.Time `gorm:"column:voted_at"`
}

func (pollVoteModel) TableName() string { return "poll_votes" }

type pollViewerModel struct {
	PollID   string `gorm:"column:poll_id;uniqueIndex:idx_poll_viewers_poll_username"`
	Username string `gorm:"column:username;uniqueIndex:idx_poll_viewers_poll_username"`
}

func (pollViewerModel) TableName() string { return "poll_viewers" }

type archivedPollModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Question  string    `gorm:"column:question"`
	Outcome   string    `gorm:"column:outcome"`
	CreatedBy string    `gorm:"column:created_by"`
	ClosedAt  time.Time `gorm:"column:closed_at;index"`
}

func (archivedPollModel) TableName() string { return "archived_polls" }

func (row pollModel) toEntity() entities.Poll {
	return entities.Poll{
		ID:         row.ID,
		Question:   row.Question,
		ShowVoters: row.ShowVoters,
		CreatedBy:  row.CreatedBy,
		CreatedAt:  row.CreatedAt,
		ExpiresAt:  row.ExpiresAt,
		IsActive:   row.IsActive,
	}
}
