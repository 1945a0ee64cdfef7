package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"modpanel/contexts/review-operations/poll-consensus/domain/entities"
	domainerrors "modpanel/contexts/review-operations/poll-consensus/domain/errors"
)

// Store is the in-memory repository used by tests and local wiring. AddVote
// and Deactivate are single critical sections, which is what makes the
// close-once property hold under racing last voters.
type Store struct {
	mu       sync.RWMutex
	polls    map[string]entities.Poll
	archived []entities.ArchivedPoll
}

func NewStore() *Store {
	return &Store{polls: map[string]entities.Poll{}}
}

func (s *Store) Now() time.Time { return time.Now().UTC() }

func (s *Store) NewID(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreatePoll(ctx context.Context, poll entities.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (s *Store) GetPoll(ctx context.Context, id string) (entities.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, ok := s.polls[id]
	if !ok {
		return entities.Poll{}, domainerrors.ErrPollNotFound
	}
	return clonePoll(poll), nil
}

func (s *Store) ListActivePolls(ctx context.Context) ([]entities.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Poll
	for _, poll := range s.polls {
		if poll.IsActive {
			out = append(out, clonePoll(poll))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CountActivePolls(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, poll := range s.polls {
		if poll.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeletePoll(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.polls[id]; !ok {
		return domainerrors.ErrPollNotFound
	}
	delete(s.polls, id)
	return nil
}

func (s *Store) AddVote(ctx context.Context, id string, optionIndex int, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	poll, ok := s.polls[id]
	if !ok {
		return domainerrors.ErrPollNotFound
	}
	if !poll.IsActive {
		return domainerrors.ErrPollClosed
	}
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return domainerrors.ErrInvalidOption
	}
	if poll.HasVoted(username) {
		return domainerrors.ErrAlreadyVoted
	}
	poll.Options[optionIndex].Votes = append(poll.Options[optionIndex].Votes, username)
	s.polls[id] = poll
	return nil
}

func (s *Store) Deactivate(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	poll, ok := s.polls[id]
	if !ok {
		return false, domainerrors.ErrPollNotFound
	}
	if !poll.IsActive {
		return false, nil
	}
	poll.IsActive = false
	s.polls[id] = poll
	return true, nil
}

func (s *Store) ArchivePoll(ctx context.Context, archived entities.ArchivedPoll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archived = append(s.archived, archived)
	return nil
}

func (s *Store) ListArchivedPolls(ctx context.Context) ([]entities.ArchivedPoll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]entities.ArchivedPoll(nil), s.archived...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClosedAt.After(out[j].ClosedAt) })
	return out, nil
}

func (s *Store) MarkViewed(ctx context.Context, id string, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	poll, ok := s.polls[id]
	if !ok {
		return domainerrors.ErrPollNotFound
	}
	if !poll.HasViewed(username) {
		poll.ViewedBy = append(poll.ViewedBy, username)
		s.polls[id] = poll
	}
	return nil
}

func (s *Store) UnviewedCount(ctx context.Context, username string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, poll := range s.polls {
		if poll.IsActive && !poll.HasViewed(username) {
			count++
		}
	}
	return count, nil
}

func clonePoll(p entities.Poll) entities.Poll {
	out := p
	out.Options = make([]entities.PollOption, len(p.Options))
	for i, option := range p.Options {
		out.Options[i] = entities.PollOption{
			Text:  option.Text,
			Votes: append([]string(nil), option.Votes...),
		}
	}
	out.ViewedBy = append([]string(nil), p.ViewedBy...)
	return out
}
