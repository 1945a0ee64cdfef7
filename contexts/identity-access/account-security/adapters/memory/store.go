package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"modpanel/contexts/identity-access/account-security/domain/entities"
	domainerrors "modpanel/contexts/identity-access/account-security/domain/errors"
	"modpanel/contexts/identity-access/account-security/ports"
)

// Store is the in-memory repository used by tests and local wiring. Every
// exported method is one mutex-guarded critical section, mirroring the
// single-document atomicity the postgres adapter gets from conditional
// updates.
type Store struct {
	mu         sync.RWMutex
	byUsername map[string]entities.Moderator
}

func NewStore() *Store {
	return &Store{byUsername: map[string]entities.Moderator{}}
}

func (s *Store) Now() time.Time { return time.Now().UTC() }

func (s *Store) NewID(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreateModerator(ctx context.Context, moderator entities.Moderator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(moderator.Username)
	if _, exists := s.byUsername[key]; exists {
		return domainerrors.ErrUsernameTaken
	}
	if moderator.Email != "" {
		for _, existing := range s.byUsername {
			if existing.Email == moderator.Email {
				return domainerrors.ErrEmailTaken
			}
		}
	}
	s.byUsername[key] = cloneModerator(moderator)
	return nil
}

func (s *Store) GetModerator(ctx context.Context, username string) (entities.Moderator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	moderator, ok := s.byUsername[strings.ToLower(username)]
	if !ok {
		return entities.Moderator{}, domainerrors.ErrModeratorNotFound
	}
	return cloneModerator(moderator), nil
}

func (s *Store) FindModeratorByEmail(ctx context.Context, email string) (entities.Moderator, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, moderator := range s.byUsername {
		if moderator.Email != "" && moderator.Email == email {
			return cloneModerator(moderator), true, nil
		}
	}
	return entities.Moderator{}, false, nil
}

func (s *Store) FindModeratorByResetToken(ctx context.Context, token string) (entities.Moderator, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, moderator := range s.byUsername {
		if moderator.ResetToken != "" && moderator.ResetToken == token {
			return cloneModerator(moderator), true, nil
		}
	}
	return entities.Moderator{}, false, nil
}

func (s *Store) ListModerators(ctx context.Context) ([]entities.Moderator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Moderator, 0, len(s.byUsername))
	for _, moderator := range s.byUsername {
		out = append(out, cloneModerator(moderator))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) ActiveModeratorUsernames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, moderator := range s.byUsername {
		if moderator.Status == entities.StatusActive {
			out = append(out, moderator.Username)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, moderator := range s.byUsername {
		if moderator.IsAdmin || moderator.Role == "admin" {
			count++
		}
	}
	return count, nil
}

func (s *Store) RecordFailedLogin(ctx context.Context, username string, threshold int, now time.Time) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(username)
	moderator, ok := s.byUsername[key]
	if !ok {
		return 0, false, domainerrors.ErrModeratorNotFound
	}
	moderator.FailedLoginAttempts++
	if moderator.FailedLoginAttempts >= threshold && moderator.LockedAt == nil {
		lockedAt := now
		moderator.LockedAt = &lockedAt
	}
	s.byUsername[key] = moderator
	return moderator.FailedLoginAttempts, moderator.LockedAt != nil, nil
}

func (s *Store) RecordSuccessfulLogin(ctx context.Context, username string, now time.Time) error {
	return s.update(username, func(m *entities.Moderator) {
		m.FailedLoginAttempts = 0
		m.LockedAt = nil
		lastLogin := now
		m.LastLogin = &lastLogin
	})
}

func (s *Store) Unlock(ctx context.Context, username string) error {
	return s.update(username, func(m *entities.Moderator) {
		m.FailedLoginAttempts = 0
		m.LockedAt = nil
	})
}

func (s *Store) UpdateCredentials(ctx context.Context, username string, update ports.CredentialUpdate) error {
	return s.update(username, func(m *entities.Moderator) {
		m.PasswordHash = update.PasswordHash
		m.PasswordHistory = append([]string(nil), update.PasswordHistory...)
		m.MustChangePassword = update.MustChangePassword
		if update.ClearLock {
			m.FailedLoginAttempts = 0
			m.LockedAt = nil
		}
		if update.ClearResetToken {
			m.ResetToken = ""
			m.ResetTokenExpiresAt = nil
		}
	})
}

func (s *Store) SetResetToken(ctx context.Context, username string, token string, expiresAt time.Time) error {
	return s.update(username, func(m *entities.Moderator) {
		m.ResetToken = token
		expiry := expiresAt
		m.ResetTokenExpiresAt = &expiry
	})
}

func (s *Store) SetRole(ctx context.Context, username string, role string, roles []string) error {
	return s.update(username, func(m *entities.Moderator) {
		m.Role = role
		m.Roles = append([]string(nil), roles...)
	})
}

func (s *Store) SetAdminFlag(ctx context.Context, username string, isAdmin bool) error {
	return s.update(username, func(m *entities.Moderator) { m.IsAdmin = isAdmin })
}

func (s *Store) SetStatus(ctx context.Context, username string, status string) error {
	return s.update(username, func(m *entities.Moderator) { m.Status = status })
}

func (s *Store) SetLeaderFlags(ctx context.Context, username string, inGame bool, discord bool) error {
	return s.update(username, func(m *entities.Moderator) {
		m.IsInGameLeader = inGame
		m.IsDiscordLeader = discord
	})
}

func (s *Store) SetTrainingManager(ctx context.Context, username string, enabled bool) error {
	return s.update(username, func(m *entities.Moderator) { m.IsTrainingManager = enabled })
}

func (s *Store) SetApplicationViewer(ctx context.Context, username string, enabled bool) error {
	return s.update(username, func(m *entities.Moderator) { m.CanViewApplications = enabled })
}

func (s *Store) UpdateUsername(ctx context.Context, username string, newUsername string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	oldKey := strings.ToLower(username)
	newKey := strings.ToLower(newUsername)
	moderator, ok := s.byUsername[oldKey]
	if !ok {
		return domainerrors.ErrModeratorNotFound
	}
	if _, exists := s.byUsername[newKey]; exists {
		return domainerrors.ErrUsernameTaken
	}
	moderator.Username = newUsername
	delete(s.byUsername, oldKey)
	s.byUsername[newKey] = moderator
	return nil
}

func (s *Store) UpdateEmail(ctx context.Context, username string, email string) error {
	return s.update(username, func(m *entities.Moderator) { m.Email = email })
}

func (s *Store) DeleteModerator(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(username)
	if _, ok := s.byUsername[key]; !ok {
		return domainerrors.ErrModeratorNotFound
	}
	delete(s.byUsername, key)
	return nil
}

func (s *Store) update(username string, mutate func(*entities.Moderator)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(username)
	moderator, ok := s.byUsername[key]
	if !ok {
		return domainerrors.ErrModeratorNotFound
	}
	mutate(&moderator)
	s.byUsername[key] = moderator
	return nil
}

func cloneModerator(m entities.Moderator) entities.Moderator {
	out := m
	out.PasswordHistory = append([]string(nil), m.PasswordHistory...)
	out.Roles = append([]string(nil), m.Roles...)
	if m.LockedAt != nil {
		lockedAt := *m.LockedAt
		out.LockedAt = &lockedAt
	}
	if m.LastLogin != nil {
		lastLogin := *m.LastLogin
		out.LastLogin = &lastLogin
	}
	if m.ResetTokenExpiresAt != nil {
		expiry := *m.ResetTokenExpiresAt
		out.ResetTokenExpiresAt = &expiry
	}
	return out
}
