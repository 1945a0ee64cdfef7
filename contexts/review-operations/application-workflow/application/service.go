package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	roleauthority "modpanel/contexts/identity-access/role-authority"

	"modpanel/contexts/review-operations/application-workflow/domain/entities"
	domainerrors "modpanel/contexts/review-operations/application-workflow/domain/errors"
	"modpanel/contexts/review-operations/application-workflow/ports"
)

// Actor is the resolved identity of the caller.
type Actor struct {
	Username          string
	Role              string
	IsAdmin           bool
	IsTrainingManager bool
	IsInGameLeader    bool
	IsDiscordLeader   bool
}

// Service owns the application review workflow: public intake, the vote and
// comment ledgers, status transitions with audit trail, and the two
// independent team approvals.
type Service struct {
	Repo      ports.Repository
	Roles     roleauthority.Table
	Directory ports.Directory
	Notifier  ports.Notifier
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// Submit accepts a public application while intake is open. No
// authentication; the submitter is the applicant.
func (s Service) Submit(ctx context.Context, submission entities.Submission) (entities.Application, error) {
	settings, err := s.Repo.GetIntakeSettings(ctx)
	if err != nil {
		return entities.Application{}, err
	}
	if !settings.ApplicationsEnabled {
		return entities.Application{}, domainerrors.ErrIntakeDisabled
	}
	if strings.TrimSpace(submission.Name) == "" ||
		strings.TrimSpace(submission.Position) == "" ||
		strings.TrimSpace(submission.DiscordHandle) == "" ||
		strings.TrimSpace(submission.IngameName) == "" {
		return entities.Application{}, domainerrors.ErrInvalidRequest
	}

	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Application{}, err
	}
	application := entities.Application{
		ID:          id,
		Submission:  submission,
		Status:      entities.StatusAwaitingReview,
		SubmittedAt: s.Clock.Now(),
	}
	if err := s.Repo.CreateApplication(ctx, application); err != nil {
		return entities.Application{}, err
	}
	resolveLogger(s.Logger).Info("application submitted",
		"event", "workflow_application_submitted",
		"module", "review-operations/application-workflow",
		"layer", "application",
		"application_id", id,
		"position", submission.Position,
	)
	s.notify(ctx, submission.Email, "Application received",
		fmt.Sprintf("Hi %s, we received your moderator application and will review it shortly.", submission.Name))
	return application, nil
}

// List returns applications newest-first. Callers without the viewer flag are
// refused; applicant names are shielded unless the caller is a training
// manager or admin.
func (s Service) List(ctx context.Context, actor Actor, search string) ([]entities.Application, error) {
	canView, isTrainingManager, err := s.viewerFlags(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !canView {
		return nil, domainerrors.ErrViewingForbidden
	}
	applications, err := s.Repo.ListApplications(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	if !isTrainingManager && !actor.IsAdmin {
		for i := range applications {
			applications[i].Name = entities.HiddenApplicantName
		}
	}
	return applications, nil
}

// Get returns one application and records the caller in the viewed-by set.
func (s Service) Get(ctx context.Context, actor Actor, id string) (entities.Application, error) {
	canView, isTrainingManager, err := s.viewerFlags(ctx, actor)
	if err != nil {
		return entities.Application{}, err
	}
	if !canView {
		return entities.Application{}, domainerrors.ErrViewingForbidden
	}
	application, err := s.Repo.GetApplication(ctx, id)
	if err != nil {
		return entities.Application{}, err
	}
	if !application.HasViewed(actor.Username) {
		if err := s.Repo.AddToViewedBy(ctx, id, actor.Username); err != nil {
			return entities.Application{}, err
		}
		application.ViewedBy = append(application.ViewedBy, actor.Username)
	}
	if !isTrainingManager && !actor.IsAdmin {
		application.Name = entities.HiddenApplicantName
		application.Email = ""
	}
	return application, nil
}

// CastVote records or replaces the caller's vote. Votes never require a
// comment and never decide the outcome; the first vote on a fresh
// application moves it from awaiting_review to pending.
func (s Service) CastVote(ctx context.Context, actor Actor, id string, value string) error {
	if value != entities.VoteApprove && value != entities.VoteReject {
		return domainerrors.ErrInvalidVote
	}
	if err := s.Repo.UpsertVote(ctx, id, entities.Vote{
		Moderator: actor.Username,
		Vote:      value,
		Timestamp: s.Clock.Now(),
	}); err != nil {
		return err
	}
	bumped, err := s.Repo.BumpPending(ctx, id)
	if err != nil {
		return err
	}
	if bumped {
		resolveLogger(s.Logger).Info("application moved to pending",
			"event", "workflow_status_bumped",
			"module", "review-operations/application-workflow",
			"layer", "application",
			"application_id", id,
			"moderator", actor.Username,
		)
	}
	return nil
}

// AddComment appends to the comment ledger. Any authenticated moderator may
// comment; the ledger is never edited or truncated.
func (s Service) AddComment(ctx context.Context, actor Actor, id string, text string) (entities.Comment, error) {
	comment := entities.Comment{
		Moderator: actor.Username,
		Comment:   text,
		Timestamp: s.Clock.Now(),
	}
	if err := s.Repo.AppendComment(ctx, id, comment); err != nil {
		return entities.Comment{}, err
	}
	return comment, nil
}

// ChangeStatus moves an application through the review pipeline. The
// transition comment is mandatory and lands in the ledger tagged with the
// old and new states; every transition also emits an audit entry.
func (s Service) ChangeStatus(ctx context.Context, actor Actor, id string, status string, comment string) (entities.Application, error) {
	if !entities.ValidStatus(status) {
		return entities.Application{}, domainerrors.ErrInvalidStatus
	}
	if strings.TrimSpace(comment) == "" {
		return entities.Application{}, domainerrors.ErrEmptyComment
	}
	if !s.Roles.CanReviewApplications(actor.Role, actor.IsAdmin) {
		return entities.Application{}, domainerrors.ErrForbidden
	}

	existing, err := s.Repo.GetApplication(ctx, id)
	if err != nil {
		return entities.Application{}, err
	}
	oldStatus := existing.Status
	now := s.Clock.Now()

	if err := s.Repo.UpdateStatus(ctx, id, ports.StatusUpdate{
		Status:     status,
		ReviewedBy: actor.Username,
		ReviewedAt: now,
	}); err != nil {
		return entities.Application{}, err
	}
	if err := s.Repo.AppendComment(ctx, id, entities.Comment{
		Moderator: actor.Username,
		Comment:   fmt.Sprintf("[STATUS CHANGE: %s → %s] %s", strings.ToUpper(oldStatus), strings.ToUpper(status), comment),
		Timestamp: now,
	}); err != nil {
		return entities.Application{}, err
	}
	if err := s.appendAudit(ctx, entities.AuditLogEntry{
		Action:          entities.ActionStatusChanged,
		ApplicationID:   id,
		ApplicationName: existing.Name,
		PerformedBy:     actor.Username,
		Comment:         comment,
		OldStatus:       oldStatus,
		NewStatus:       status,
	}); err != nil {
		return entities.Application{}, err
	}

	resolveLogger(s.Logger).Info("application status changed",
		"event", "workflow_status_changed",
		"module", "review-operations/application-workflow",
		"layer", "application",
		"application_id", id,
		"old_status", oldStatus,
		"new_status", status,
		"reviewed_by", actor.Username,
	)
	s.notifyStatusChange(ctx, existing, oldStatus, status, comment)

	return s.Repo.GetApplication(ctx, id)
}

// TeamApprove sets one of the two independent approval flags. The flags never
// feed back into status.
func (s Service) TeamApprove(ctx context.Context, actor Actor, id string, kind string, comment string) error {
	label, err := s.approvalGate(actor, kind)
	if err != nil {
		return err
	}
	if strings.TrimSpace(comment) == "" {
		return domainerrors.ErrEmptyComment
	}
	if _, err := s.Repo.GetApplication(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.SetTeamApproval(ctx, id, kind, true, actor.Username); err != nil {
		return err
	}
	return s.Repo.AppendComment(ctx, id, entities.Comment{
		Moderator: actor.Username,
		Comment:   fmt.Sprintf("[%s] %s", label, comment),
		Timestamp: s.Clock.Now(),
	})
}

// TeamUnapprove clears the flag and the recorded approver. No comment
// required.
func (s Service) TeamUnapprove(ctx context.Context, actor Actor, id string, kind string) error {
	if _, err := s.approvalGate(actor, kind); err != nil {
		return err
	}
	if _, err := s.Repo.GetApplication(ctx, id); err != nil {
		return err
	}
	return s.Repo.SetTeamApproval(ctx, id, kind, false, "")
}

// Delete removes an application. The audit entry is written before the
// delete so the trail survives the record.
func (s Service) Delete(ctx context.Context, actor Actor, id string) error {
	if !s.Roles.IsTopTier(actor.Role, actor.IsAdmin) {
		return domainerrors.ErrForbidden
	}
	existing, err := s.Repo.GetApplication(ctx, id)
	if err != nil {
		return err
	}
	if err := s.appendAudit(ctx, entities.AuditLogEntry{
		Action:          entities.ActionDeleted,
		ApplicationID:   id,
		ApplicationName: existing.Name,
		PerformedBy:     actor.Username,
		Comment:         fmt.Sprintf("Application deleted by %s", actor.Username),
		OldStatus:       existing.Status,
		NewStatus:       "deleted",
	}); err != nil {
		return err
	}
	return s.Repo.DeleteApplication(ctx, id)
}

// ListAuditLogs returns the trail newest-first.
func (s Service) ListAuditLogs(ctx context.Context, actor Actor) ([]entities.AuditLogEntry, error) {
	if !s.Roles.CanReviewApplications(actor.Role, actor.IsAdmin) {
		return nil, domainerrors.ErrForbidden
	}
	return s.Repo.ListAuditLogs(ctx)
}

func (s Service) IntakeSettings(ctx context.Context) (entities.IntakeSettings, error) {
	return s.Repo.GetIntakeSettings(ctx)
}

func (s Service) UpdateIntakeSettings(ctx context.Context, actor Actor, enabled bool) (entities.IntakeSettings, error) {
	if !s.Roles.CanReviewApplications(actor.Role, actor.IsAdmin) {
		return entities.IntakeSettings{}, domainerrors.ErrForbidden
	}
	settings := entities.IntakeSettings{
		ApplicationsEnabled: enabled,
		UpdatedBy:           actor.Username,
		UpdatedAt:           s.Clock.Now(),
	}
	if err := s.Repo.UpdateIntakeSettings(ctx, settings); err != nil {
		return entities.IntakeSettings{}, err
	}
	resolveLogger(s.Logger).Info("intake settings updated",
		"event", "workflow_intake_updated",
		"module", "review-operations/application-workflow",
		"layer", "application",
		"applications_enabled", enabled,
		"updated_by", actor.Username,
	)
	return settings, nil
}

func (s Service) approvalGate(actor Actor, kind string) (string, error) {
	switch kind {
	case entities.ApprovalDiscord:
		if !actor.IsDiscordLeader && !actor.IsAdmin {
			return "", domainerrors.ErrForbidden
		}
		return "DISCORD TEAM APPROVAL", nil
	case entities.ApprovalInGame:
		if !actor.IsInGameLeader && !actor.IsAdmin {
			return "", domainerrors.ErrForbidden
		}
		return "IN-GAME TEAM APPROVAL", nil
	}
	return "", domainerrors.ErrInvalidApprovalType
}

// viewerFlags re-reads the caller's viewer permissions from the identity
// directory on every request.
func (s Service) viewerFlags(ctx context.Context, actor Actor) (bool, bool, error) {
	if s.Directory == nil {
		return true, actor.IsTrainingManager, nil
	}
	return s.Directory.ViewerFlags(ctx, actor.Username)
}

func (s Service) appendAudit(ctx context.Context, entry entities.AuditLogEntry) error {
	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	entry.ID = id
	entry.CreatedAt = s.Clock.Now()
	return s.Repo.AppendAuditLog(ctx, entry)
}

func (s Service) notifyStatusChange(ctx context.Context, application entities.Application, oldStatus string, newStatus string, comment string) {
	if application.Email == "" {
		return
	}
	name := application.Name
	switch newStatus {
	case entities.StatusApproved:
		if oldStatus == entities.StatusWaiting {
			s.notify(ctx, application.Email, "Application approved",
				fmt.Sprintf("Hi %s, good news: a spot opened up and your application has been approved. %s", name, comment))
		} else {
			s.notify(ctx, application.Email, "Application approved",
				fmt.Sprintf("Hi %s, your moderator application has been approved. %s", name, comment))
		}
	case entities.StatusRejected:
		s.notify(ctx, application.Email, "Application update",
			fmt.Sprintf("Hi %s, after review we will not be moving forward with your application.", name))
	case entities.StatusWaiting:
		s.notify(ctx, application.Email, "Application waitlisted",
			fmt.Sprintf("Hi %s, your application passed review and is on the waiting list for the next opening.", name))
	}
}

func (s Service) notify(ctx context.Context, recipient string, subject string, body string) {
	if s.Notifier == nil || strings.TrimSpace(recipient) == "" {
		return
	}
	if err := s.Notifier.Send(ctx, recipient, subject, body); err != nil {
		resolveLogger(s.Logger).Warn("notification delivery failed",
			"event", "workflow_notification_failed",
			"module", "review-operations/application-workflow",
			"layer", "application",
			"recipient", recipient,
			"error", err.Error(),
		)
	}
}
