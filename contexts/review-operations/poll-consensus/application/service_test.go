package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	roleauthority "modpanel/contexts/identity-access/role-authority"

	"modpanel/contexts/review-operations/poll-consensus/adapters/memory"
	"modpanel/contexts/review-operations/poll-consensus/domain/entities"
	domainerrors "modpanel/contexts/review-operations/poll-consensus/domain/errors"
)

var (
	pollMaster     = Actor{Username: "hana", Role: roleauthority.RoleSMod}
	plainModerator = Actor{Username: "niko", Role: roleauthority.RoleModerator}
	adminActor     = Actor{Username: "root", Role: roleauthority.RoleAdmin, IsAdmin: true}
)

type stubRoster struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (r *stubRoster) ActiveModeratorUsernames(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]string(nil), r.names...), nil
}

type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newPollService(store *memory.Store, roster *stubRoster, clock *stubClock) Service {
	return Service{
		Repo:   store,
		Roster: roster,
		Roles:  roleauthority.Default(),
		Clock:  clock,
		IDGen:  store,
	}
}

func newPollFixture(roster []string) (Service, *memory.Store, *stubClock) {
	store := memory.NewStore()
	clock := &stubClock{now: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
	return newPollService(store, &stubRoster{names: roster}, clock), store, clock
}

func createPoll(t *testing.T, svc Service, actor Actor, question string, options ...string) entities.Poll {
	t.Helper()
	poll, err := svc.Create(context.Background(), actor, CreatePollCommand{
		Question: question,
		Options:  options,
	})
	if err != nil {
		t.Fatalf("Create(%q): %v", question, err)
	}
	return poll
}

func TestCreatePollRequiresSeniorModerator(t *testing.T) {
	svc, _, _ := newPollFixture(nil)

	_, err := svc.Create(context.Background(), plainModerator, CreatePollCommand{
		Question: "Rotate shift leads?",
		Options:  []string{"Yes", "No"},
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain moderator, got %v", err)
	}

	poll := createPoll(t, svc, pollMaster, "  Rotate shift leads?  ", "Yes", "No")
	if poll.Question != "Rotate shift leads?" {
		t.Fatalf("question not trimmed: %q", poll.Question)
	}
	if !poll.IsActive {
		t.Fatal("new poll must be active")
	}
	if want := poll.CreatedAt.Add(entities.DefaultPollDuration); !poll.ExpiresAt.Equal(want) {
		t.Fatalf("expiry = %v, want %v", poll.ExpiresAt, want)
	}
}

func TestCreatePollValidation(t *testing.T) {
	svc, _, _ := newPollFixture(nil)
	ctx := context.Background()

	cases := []struct {
		name     string
		question string
		options  []string
		want     error
	}{
		{"blank question", "   ", []string{"Yes", "No"}, domainerrors.ErrInvalidRequest},
		{"one option", "Q?", []string{"Yes"}, domainerrors.ErrInvalidOptionCount},
		{"seven options", "Q?", []string{"a", "b", "c", "d", "e", "f", "g"}, domainerrors.ErrInvalidOptionCount},
		{"blank option", "Q?", []string{"Yes", "  "}, domainerrors.ErrInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, pollMaster, CreatePollCommand{Question: tc.question, Options: tc.options})
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreatePollActiveLimit(t *testing.T) {
	svc, _, _ := newPollFixture(nil)

	createPoll(t, svc, pollMaster, "First?", "Yes", "No")
	createPoll(t, svc, pollMaster, "Second?", "Yes", "No")

	_, err := svc.Create(context.Background(), pollMaster, CreatePollCommand{
		Question: "Third?",
		Options:  []string{"Yes", "No"},
	})
	if !errors.Is(err, domainerrors.ErrTooManyActivePolls) {
		t.Fatalf("expected ErrTooManyActivePolls, got %v", err)
	}
}

func TestVoteIsImmutable(t *testing.T) {
	svc, store, _ := newPollFixture([]string{"hana", "niko", "mira"})
	ctx := context.Background()
	poll := createPoll(t, svc, pollMaster, "Keep weekend rota?", "Yes", "No")

	if err := svc.Vote(ctx, plainModerator, poll.ID, 0); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	err := svc.Vote(ctx, plainModerator, poll.ID, 1)
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	stored, err := store.GetPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if len(stored.Options[0].Votes) != 1 || stored.Options[0].Votes[0] != "niko" {
		t.Fatalf("first option votes = %v, want [niko]", stored.Options[0].Votes)
	}
	if len(stored.Options[1].Votes) != 0 {
		t.Fatalf("second option must stay empty, got %v", stored.Options[1].Votes)
	}
}

func TestVoteRejectsBadTargets(t *testing.T) {
	svc, _, _ := newPollFixture([]string{"hana", "niko"})
	ctx := context.Background()
	poll := createPoll(t, svc, pollMaster, "Q?", "Yes", "No")

	if err := svc.Vote(ctx, plainModerator, "missing", 0); !errors.Is(err, domainerrors.ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
	if err := svc.Vote(ctx, plainModerator, poll.ID, 5); !errors.Is(err, domainerrors.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if err := svc.Vote(ctx, plainModerator, poll.ID, -1); !errors.Is(err, domainerrors.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for negative index, got %v", err)
	}
}

func TestConsensusClosesPoll(t *testing.T) {
	svc, store, _ := newPollFixture([]string{"hana", "niko"})
	ctx := context.Background()
	poll := createPoll(t, svc, pollMaster, "Adopt the new intake form?", "Yes", "No")

	if err := svc.Vote(ctx, pollMaster, poll.ID, 0); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	mid, err := store.GetPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if !mid.IsActive {
		t.Fatal("poll closed before the full roster voted")
	}

	if err := svc.Vote(ctx, plainModerator, poll.ID, 0); err != nil {
		t.Fatalf("last vote: %v", err)
	}
	closed, err := store.GetPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("GetPoll after close: %v", err)
	}
	if closed.IsActive {
		t.Fatal("poll must auto-close once every active moderator has voted")
	}

	archived, err := svc.ListArchived(ctx)
	if err != nil {
		t.Fatalf("ListArchived: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("archive snapshots = %d, want 1", len(archived))
	}
	if archived[0].Outcome != "Yes (2 votes)" {
		t.Fatalf("outcome = %q, want %q", archived[0].Outcome, "Yes (2 votes)")
	}
	if archived[0].Question != poll.Question {
		t.Fatalf("archived question = %q", archived[0].Question)
	}
}

func TestConsensusRequiresSetEquality(t *testing.T) {
	svc, store, _ := newPollFixture([]string{"hana", "niko", "mira"})
	ctx := context.Background()
	poll := createPoll(t, svc, pollMaster, "Q?", "Yes", "No")

	// Three voters, but one of them left the roster; the missing roster
	// member keeps the poll open even though the counts match.
	departed := Actor{Username: "old-timer", Role: roleauthority.RoleModerator}
	for _, actor := range []Actor{pollMaster, plainModerator, departed} {
		if err := svc.Vote(ctx, actor, poll.ID, 0); err != nil {
			t.Fatalf("vote by %s: %v", actor.Username, err)
		}
	}
	stored, err := store.GetPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if !stored.IsActive {
		t.Fatal("poll closed while a roster member had not voted")
	}
}

func TestTieOutcome(t *testing.T) {
	svc, _, _ := newPollFixture([]string{"hana", "niko"})
	ctx := context.Background()
	poll := createPoll(t, svc, pollMaster, "Split decision?", "Yes", "No")

	if err := svc.Vote(ctx, pollMaster, poll.ID, 0); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := svc.Vote(ctx, plainModerator, poll.ID, 1); err != nil {
		t.Fatalf("vote: %v", err)
	}

	archived, err := svc.ListArchived(ctx)
	if err != nil {
		t.Fatalf("ListArchived: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("archive snapshots = %d, want 1", len(archived))
	}
	if want := "Tie: Yes, No (1 votes each)"; archived[0].Outcome != want {
		t.Fatalf("outcome = %q, want %q", archived[0].Outcome, want)
	}
}

func TestRacingClosersArchiveOnce(t *testing.T) {
	svc, store, _ := newPollFixture(nil)
	ctx := context.Background()
	poll := createPoll(t, svc, pollMaster, "Race?", "Yes", "No")

	const closers = 16
	var wg sync.WaitGroup
	wg.Add(closers)
	for i := 0; i < closers; i++ {
		go func() {
			defer wg.Done()
			if err := svc.Close(ctx, pollMaster, poll.ID); err != nil {
				t.Errorf("Close: %v", err)
			}
		}()
	}
	wg.Wait()

	archived, err := svc.ListArchived(ctx)
	if err != nil {
		t.Fatalf("ListArchived: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("archive snapshots = %d, want exactly 1", len(archived))
	}
	stored, err := store.GetPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if stored.IsActive {
		t.Fatal("poll still active after racing closers")
	}
}

func TestVoteOnClosedPoll(t *testing.T) {
	svc, _, _ := newPollFixture(nil)
	ctx := context.Background()
	poll := createPoll(t, svc, pollMaster, "Q?", "Yes", "No")

	if err := svc.Close(ctx, pollMaster, poll.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := svc.Vote(ctx, plainModerator, poll.ID, 0); !errors.Is(err, domainerrors.ErrPollClosed) {
		t.Fatalf("expected ErrPollClosed, got %v", err)
	}
}

func TestCloseRequiresSeniorModerator(t *testing.T) {
	svc, _, _ := newPollFixture(nil)
	poll := createPoll(t, svc, pollMaster, "Q?", "Yes", "No")

	if err := svc.Close(context.Background(), plainModerator, poll.ID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCloseExpiredSweep(t *testing.T) {
	svc, store, clock := newPollFixture(nil)
	ctx := context.Background()

	stale := createPoll(t, svc, pollMaster, "Old business?", "Yes", "No")
	clock.Advance(3 * 24 * time.Hour)
	fresh := createPoll(t, svc, pollMaster, "New business?", "Yes", "No")
	clock.Advance(5 * 24 * time.Hour)

	closed, err := svc.CloseExpired(ctx)
	if err != nil {
		t.Fatalf("CloseExpired: %v", err)
	}
	if closed != 1 {
		t.Fatalf("closed = %d, want 1", closed)
	}

	staleStored, err := store.GetPoll(ctx, stale.ID)
	if err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if staleStored.IsActive {
		t.Fatal("expired poll still active after sweep")
	}
	freshStored, err := store.GetPoll(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if !freshStored.IsActive {
		t.Fatal("sweep closed a poll before its expiry")
	}
}

func TestDeletePollIsTopTierOnly(t *testing.T) {
	svc, _, _ := newPollFixture(nil)
	ctx := context.Background()
	poll := createPoll(t, svc, pollMaster, "Q?", "Yes", "No")

	if err := svc.Delete(ctx, pollMaster, poll.ID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for smod, got %v", err)
	}
	if err := svc.Delete(ctx, adminActor, poll.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := svc.Repo.GetPoll(ctx, poll.ID); !errors.Is(err, domainerrors.ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound after delete, got %v", err)
	}
}

func TestMarkViewedAndUnviewedCount(t *testing.T) {
	svc, _, _ := newPollFixture(nil)
	ctx := context.Background()

	first := createPoll(t, svc, pollMaster, "First?", "Yes", "No")
	createPoll(t, svc, pollMaster, "Second?", "Yes", "No")

	count, err := svc.UnviewedCount(ctx, plainModerator)
	if err != nil {
		t.Fatalf("UnviewedCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("unviewed = %d, want 2", count)
	}

	if err := svc.MarkViewed(ctx, plainModerator, first.ID); err != nil {
		t.Fatalf("MarkViewed: %v", err)
	}
	if err := svc.MarkViewed(ctx, plainModerator, first.ID); err != nil {
		t.Fatalf("MarkViewed repeat: %v", err)
	}

	count, err = svc.UnviewedCount(ctx, plainModerator)
	if err != nil {
		t.Fatalf("UnviewedCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("unviewed = %d, want 1", count)
	}

	stored, err := svc.Repo.GetPoll(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if len(stored.ViewedBy) != 1 {
		t.Fatalf("viewed_by = %v, want single entry", stored.ViewedBy)
	}

	// Closed polls drop out of the unviewed count.
	if err := svc.Close(ctx, pollMaster, first.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	count, err = svc.UnviewedCount(ctx, pollMaster)
	if err != nil {
		t.Fatalf("UnviewedCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("unviewed for creator = %d, want 1", count)
	}
}

func TestRosterFailureDoesNotLoseVote(t *testing.T) {
	store := memory.NewStore()
	roster := &stubRoster{err: errors.New("directory unavailable")}
	clock := &stubClock{now: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
	svc := newPollService(store, roster, clock)
	ctx := context.Background()
	poll := createPoll(t, svc, pollMaster, "Q?", "Yes", "No")

	if err := svc.Vote(ctx, plainModerator, poll.ID, 0); err != nil {
		t.Fatalf("vote must survive a roster failure, got %v", err)
	}
	stored, err := store.GetPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if !stored.HasVoted("niko") {
		t.Fatal("vote not recorded")
	}
	if !stored.IsActive {
		t.Fatal("poll must stay open when the roster cannot be checked")
	}
}

func TestArchivedPollsNewestFirst(t *testing.T) {
	svc, _, clock := newPollFixture(nil)
	ctx := context.Background()

	first := createPoll(t, svc, pollMaster, "First?", "Yes", "No")
	if err := svc.Close(ctx, pollMaster, first.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	clock.Advance(time.Hour)
	second := createPoll(t, svc, pollMaster, "Second?", "Yes", "No")
	if err := svc.Close(ctx, pollMaster, second.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}

	archived, err := svc.ListArchived(ctx)
	if err != nil {
		t.Fatalf("ListArchived: %v", err)
	}
	if len(archived) != 2 {
		t.Fatalf("archive snapshots = %d, want 2", len(archived))
	}
	if archived[0].Question != "Second?" || archived[1].Question != "First?" {
		t.Fatalf("archive order wrong: %q then %q", archived[0].Question, archived[1].Question)
	}
}
