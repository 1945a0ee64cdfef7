package entities

import "time"

// DefaultPollDuration is how long a poll stays open unless consensus closes
// it earlier.
const DefaultPollDuration = 7 * 24 * time.Hour

// Poll option count bounds.
const (
	MinOptions = 2
	MaxOptions = 6
)

// MaxActivePolls caps concurrently open polls.
const MaxActivePolls = 2

// PollOption is one answer with the usernames that picked it.
type PollOption struct {
	Text  string   `json:"text"`
	Votes []string `json:"votes"`
}

// Poll is a moderator consensus poll. Votes are immutable: one per username
// across all options, never changed.
type Poll struct {
	ID         string       `json:"id"`
	Question   string       `json:"question"`
	Options    []PollOption `json:"options"`
	ShowVoters bool         `json:"show_voters"`
	CreatedBy  string       `json:"created_by"`
	CreatedAt  time.Time    `json:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at"`
	IsActive   bool         `json:"is_active"`
	ViewedBy   []string     `json:"viewed_by"`
}

// HasVoted reports whether the username voted on any option.
func (p Poll) HasVoted(username string) bool {
	for _, option := range p.Options {
		for _, voter := range option.Votes {
			if voter == username {
				return true
			}
		}
	}
	return false
}

// Voters returns the set of usernames that have voted.
func (p Poll) Voters() map[string]bool {
	out := map[string]bool{}
	for _, option := range p.Options {
		for _, voter := range option.Votes {
			out[voter] = true
		}
	}
	return out
}

// HasViewed reports whether the username is in the viewed-by set.
func (p Poll) HasViewed(username string) bool {
	for _, viewer := range p.ViewedBy {
		if viewer == username {
			return true
		}
	}
	return false
}

// ArchivedPoll is the immutable outcome snapshot written when a poll closes.
type ArchivedPoll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Outcome   string    `json:"outcome"`
	CreatedBy string    `json:"created_by"`
	ClosedAt  time.Time `json:"closed_at"`
}
