package ports

import (
	"context"
	"time"

	"modpanel/contexts/review-operations/poll-consensus/domain/entities"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator issues unique identifiers for polls and archive snapshots.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Roster resolves the active moderator usernames the consensus check runs
// against. Wired to the identity context at composition time.
type Roster interface {
	ActiveModeratorUsernames(ctx context.Context) ([]string, error)
}

// Repository is the poll store. AddVote and Deactivate are the two atomic
// operations the closing protocol depends on.
type Repository interface {
	CreatePoll(ctx context.Context, poll entities.Poll) error
	GetPoll(ctx context.Context, id string) (entities.Poll, error)
	// ListActivePolls returns active polls newest-first.
	ListActivePolls(ctx context.Context) ([]entities.Poll, error)
	CountActivePolls(ctx context.Context) (int, error)
	DeletePoll(ctx context.Context, id string) error

	// AddVote is atomic add-if-absent: it refuses closed polls, out-of-range
	// options, and a second vote by the same username anywhere on the poll.
	AddVote(ctx context.Context, id string, optionIndex int, username string) error

	// Deactivate is a compare-and-flip of is_active from true to false.
	// Exactly one of any number of racing callers observes true.
	Deactivate(ctx context.Context, id string) (bool, error)

	ArchivePoll(ctx context.Context, archived entities.ArchivedPoll) error
	// ListArchivedPolls returns snapshots newest-first.
	ListArchivedPolls(ctx context.Context) ([]entities.ArchivedPoll, error)

	// MarkViewed is an atomic add-to-set; re-marking is a no-op.
	MarkViewed(ctx context.Context, id string, username string) error
	// UnviewedCount counts active polls the username has not marked viewed.
	UnviewedCount(ctx context.Context, username string) (int, error)
}
