package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	roleauthority "modpanel/contexts/identity-access/role-authority"

	"modpanel/contexts/review-operations/poll-consensus/domain/entities"
	domainerrors "modpanel/contexts/review-operations/poll-consensus/domain/errors"
	"modpanel/contexts/review-operations/poll-consensus/ports"
)

// Actor is the resolved identity of the caller.
type Actor struct {
	Username string
	Role     string
	IsAdmin  bool
}

// Service owns poll lifecycle: creation, immutable voting, the roster
// consensus check, and the close-and-archive protocol.
type Service struct {
	Repo         ports.Repository
	Roster       ports.Roster
	Roles        roleauthority.Table
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	PollDuration time.Duration
	Logger       *slog.Logger
}

type CreatePollCommand struct {
	Question   string
	Options    []string
	ShowVoters bool
}

// Create opens a new poll. At most two polls are active at a time.
func (s Service) Create(ctx context.Context, actor Actor, cmd CreatePollCommand) (entities.Poll, error) {
	if !s.Roles.CanCreatePolls(actor.Role, actor.IsAdmin) {
		return entities.Poll{}, domainerrors.ErrForbidden
	}
	question := strings.TrimSpace(cmd.Question)
	if question == "" {
		return entities.Poll{}, domainerrors.ErrInvalidRequest
	}
	if len(cmd.Options) < entities.MinOptions || len(cmd.Options) > entities.MaxOptions {
		return entities.Poll{}, domainerrors.ErrInvalidOptionCount
	}
	options := make([]entities.PollOption, 0, len(cmd.Options))
	for _, text := range cmd.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			return entities.Poll{}, domainerrors.ErrInvalidRequest
		}
		options = append(options, entities.PollOption{Text: text})
	}

	active, err := s.Repo.CountActivePolls(ctx)
	if err != nil {
		return entities.Poll{}, err
	}
	if active >= entities.MaxActivePolls {
		return entities.Poll{}, domainerrors.ErrTooManyActivePolls
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Poll{}, err
	}
	now := s.Clock.Now()
	poll := entities.Poll{
		ID:         id,
		Question:   question,
		Options:    options,
		ShowVoters: cmd.ShowVoters,
		CreatedBy:  actor.Username,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.pollDuration()),
		IsActive:   true,
	}
	if err := s.Repo.CreatePoll(ctx, poll); err != nil {
		return entities.Poll{}, err
	}
	resolveLogger(s.Logger).Info("poll created",
		"event", "polls_created",
		"module", "review-operations/poll-consensus",
		"layer", "application",
		"poll_id", id,
		"created_by", actor.Username,
		"options", len(options),
	)
	return poll, nil
}

func (s Service) ListActive(ctx context.Context) ([]entities.Poll, error) {
	return s.Repo.ListActivePolls(ctx)
}

func (s Service) ListArchived(ctx context.Context) ([]entities.ArchivedPoll, error) {
	return s.Repo.ListArchivedPolls(ctx)
}

// Vote records one immutable vote, then runs the consensus check: when the
// set of voters equals the active moderator roster, the poll auto-closes.
func (s Service) Vote(ctx context.Context, actor Actor, pollID string, optionIndex int) error {
	if err := s.Repo.AddVote(ctx, pollID, optionIndex, actor.Username); err != nil {
		return err
	}

	poll, err := s.Repo.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	roster, err := s.Roster.ActiveModeratorUsernames(ctx)
	if err != nil {
		// The vote is already durable; a roster hiccup only delays the
		// consensus check until the next vote or the expiry sweep.
		resolveLogger(s.Logger).Warn("roster lookup failed during consensus check",
			"event", "polls_roster_failed",
			"module", "review-operations/poll-consensus",
			"layer", "application",
			"poll_id", pollID,
			"error", err.Error(),
		)
		return nil
	}
	if consensusReached(poll, roster) {
		return s.closeAndArchive(ctx, pollID)
	}
	return nil
}

// Close force-closes one poll, archiving its outcome.
func (s Service) Close(ctx context.Context, actor Actor, pollID string) error {
	if !s.Roles.CanCreatePolls(actor.Role, actor.IsAdmin) {
		return domainerrors.ErrForbidden
	}
	return s.closeAndArchive(ctx, pollID)
}

// CloseExpired sweeps active polls past their expiry. Invoked by the worker
// on an interval; also exposed as an operation.
func (s Service) CloseExpired(ctx context.Context) (int, error) {
	polls, err := s.Repo.ListActivePolls(ctx)
	if err != nil {
		return 0, err
	}
	now := s.Clock.Now()
	closed := 0
	for _, poll := range polls {
		if poll.ExpiresAt.After(now) {
			continue
		}
		if err := s.closeAndArchive(ctx, poll.ID); err != nil {
			return closed, err
		}
		closed++
	}
	if closed > 0 {
		resolveLogger(s.Logger).Info("expired polls closed",
			"event", "polls_expired_closed",
			"module", "review-operations/poll-consensus",
			"layer", "application",
			"count", closed,
		)
	}
	return closed, nil
}

func (s Service) Delete(ctx context.Context, actor Actor, pollID string) error {
	if !s.Roles.IsTopTier(actor.Role, actor.IsAdmin) {
		return domainerrors.ErrForbidden
	}
	return s.Repo.DeletePoll(ctx, pollID)
}

func (s Service) MarkViewed(ctx context.Context, actor Actor, pollID string) error {
	return s.Repo.MarkViewed(ctx, pollID, actor.Username)
}

func (s Service) UnviewedCount(ctx context.Context, actor Actor) (int, error) {
	return s.Repo.UnviewedCount(ctx, actor.Username)
}

// closeAndArchive runs the closing protocol: compare-and-flip first, and
// only the caller that wins the flip writes the archive snapshot. Racing
// last voters therefore produce exactly one snapshot.
func (s Service) closeAndArchive(ctx context.Context, pollID string) error {
	flipped, err := s.Repo.Deactivate(ctx, pollID)
	if err != nil {
		return err
	}
	if !flipped {
		return nil
	}
	poll, err := s.Repo.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	outcome := pollOutcome(poll)
	if err := s.Repo.ArchivePoll(ctx, entities.ArchivedPoll{
		ID:        id,
		Question:  poll.Question,
		Outcome:   outcome,
		CreatedBy: poll.CreatedBy,
		ClosedAt:  s.Clock.Now(),
	}); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("poll closed",
		"event", "polls_closed",
		"module", "review-operations/poll-consensus",
		"layer", "application",
		"poll_id", pollID,
		"outcome", outcome,
	)
	return nil
}

func (s Service) pollDuration() time.Duration {
	if s.PollDuration <= 0 {
		return entities.DefaultPollDuration
	}
	return s.PollDuration
}

// consensusReached holds when every active moderator has voted. Set
// equality, not just counts: votes from since-removed accounts do not count
// toward missing moderators.
func consensusReached(poll entities.Poll, roster []string) bool {
	if len(roster) == 0 {
		return false
	}
	voters := poll.Voters()
	for _, username := range roster {
		if !voters[username] {
			return false
		}
	}
	return len(voters) == len(roster)
}

// pollOutcome renders the result line stored in the archive. A clear winner
// yields "{option} ({n} votes)"; equal leaders yield
// "Tie: {a}, {b} ({n} votes each)".
func pollOutcome(poll entities.Poll) string {
	maxVotes := 0
	var leaders []string
	for _, option := range poll.Options {
		count := len(option.Votes)
		switch {
		case count > maxVotes:
			maxVotes = count
			leaders = []string{option.Text}
		case count == maxVotes:
			leaders = append(leaders, option.Text)
		}
	}
	if len(leaders) == 1 {
		return fmt.Sprintf("%s (%d votes)", leaders[0], maxVotes)
	}
	return fmt.Sprintf("Tie: %s (%d votes each)", strings.Join(leaders, ", "), maxVotes)
}
