package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"modpanel/contexts/review-operations/application-workflow/domain/entities"
	domainerrors "modpanel/contexts/review-operations/application-workflow/domain/errors"
	"modpanel/contexts/review-operations/application-workflow/ports"
)

// Store is the in-memory repository used by tests and local wiring. Each
// exported method is one mutex-guarded critical section, matching the
// atomicity the postgres adapter gets from conditional updates and
// ON CONFLICT upserts.
type Store struct {
	mu           sync.RWMutex
	applications map[string]entities.Application
	auditLogs    []entities.AuditLogEntry
	settings     entities.IntakeSettings
	hasSettings  bool
}

func NewStore() *Store {
	return &Store{applications: map[string]entities.Application{}}
}

func (s *Store) Now() time.Time { return time.Now().UTC() }

func (s *Store) NewID(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreateApplication(ctx context.Context, application entities.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[application.ID] = cloneApplication(application)
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id string) (entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	application, ok := s.applications[id]
	if !ok {
		return entities.Application{}, domainerrors.ErrApplicationNotFound
	}
	return cloneApplication(application), nil
}

func (s *Store) ListApplications(ctx context.Context, search string) ([]entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(search)
	out := make([]entities.Application, 0, len(s.applications))
	for _, application := range s.applications {
		if needle != "" && !matchesSearch(application, needle) {
			continue
		}
		out = append(out, cloneApplication(application))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[id]; !ok {
		return domainerrors.ErrApplicationNotFound
	}
	delete(s.applications, id)
	return nil
}

func (s *Store) UpsertVote(ctx context.Context, id string, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	application, ok := s.applications[id]
	if !ok {
		return domainerrors.ErrApplicationNotFound
	}
	replaced := false
	for i := range application.Votes {
		if application.Votes[i].Moderator == vote.Moderator {
			application.Votes[i] = vote
			replaced = true
			break
		}
	}
	if !replaced {
		application.Votes = append(application.Votes, vote)
	}
	s.applications[id] = application
	return nil
}

func (s *Store) BumpPending(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	application, ok := s.applications[id]
	if !ok {
		return false, domainerrors.ErrApplicationNotFound
	}
	if application.Status != entities.StatusAwaitingReview {
		return false, nil
	}
	application.Status = entities.StatusPending
	s.applications[id] = application
	return true, nil
}

func (s *Store) AppendComment(ctx context.Context, id string, comment entities.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	application, ok := s.applications[id]
	if !ok {
		return domainerrors.ErrApplicationNotFound
	}
	application.Comments = append(application.Comments, comment)
	s.applications[id] = application
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, update ports.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	application, ok := s.applications[id]
	if !ok {
		return domainerrors.ErrApplicationNotFound
	}
	application.Status = update.Status
	application.ReviewedBy = update.ReviewedBy
	reviewedAt := update.ReviewedAt
	application.ReviewedAt = &reviewedAt
	s.applications[id] = application
	return nil
}

func (s *Store) SetTeamApproval(ctx context.Context, id string, kind string, approved bool, approvedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	application, ok := s.applications[id]
	if !ok {
		return domainerrors.ErrApplicationNotFound
	}
	switch kind {
	case entities.ApprovalDiscord:
		application.DiscordApproved = approved
		application.DiscordApprovedBy = approvedBy
	case entities.ApprovalInGame:
		application.InGameApproved = approved
		application.InGameApprovedBy = approvedBy
	default:
		return domainerrors.ErrInvalidApprovalType
	}
	s.applications[id] = application
	return nil
}

func (s *Store) AddToViewedBy(ctx context.Context, id string, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	application, ok := s.applications[id]
	if !ok {
		return domainerrors.ErrApplicationNotFound
	}
	if !application.HasViewed(username) {
		application.ViewedBy = append(application.ViewedBy, username)
		s.applications[id] = application
	}
	return nil
}

func (s *Store) AppendAuditLog(ctx context.Context, entry entities.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context) ([]entities.AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]entities.AuditLogEntry(nil), s.auditLogs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetIntakeSettings(ctx context.Context) (entities.IntakeSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSettings {
		// Intake defaults to open until someone flips it.
		return entities.IntakeSettings{ApplicationsEnabled: true}, nil
	}
	return s.settings, nil
}

func (s *Store) UpdateIntakeSettings(ctx context.Context, settings entities.IntakeSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.hasSettings = true
	return nil
}

func matchesSearch(application entities.Application, needle string) bool {
	for _, field := range []string{
		application.Name,
		application.DiscordHandle,
		application.IngameName,
		application.Server,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func cloneApplication(a entities.Application) entities.Application {
	out := a
	out.Votes = append([]entities.Vote(nil), a.Votes...)
	out.Comments = append([]entities.Comment(nil), a.Comments...)
	out.ViewedBy = append([]string(nil), a.ViewedBy...)
	if a.ReviewedAt != nil {
		reviewedAt := *a.ReviewedAt
		out.ReviewedAt = &reviewedAt
	}
	return out
}
