package application

import (
	"context"
	"strings"

	roleauthority "modpanel/contexts/identity-access/role-authority"

	"modpanel/contexts/identity-access/account-security/domain/entities"
	domainerrors "modpanel/contexts/identity-access/account-security/domain/errors"
)

// Moderator management operations. All of them re-read the target record and
// consult the role authority before any mutation.

func (s Service) ListModerators(ctx context.Context) ([]entities.Moderator, error) {
	moderators, err := s.Repo.ListModerators(ctx)
	if err != nil {
		return nil, err
	}
	// Credential material never leaves the context.
	for i := range moderators {
		moderators[i].PasswordHash = ""
		moderators[i].PasswordHistory = nil
		moderators[i].ResetToken = ""
	}
	return moderators, nil
}

// ActiveModeratorUsernames is the roster query consumed by the poll
// consensus engine.
func (s Service) ActiveModeratorUsernames(ctx context.Context) ([]string, error) {
	return s.Repo.ActiveModeratorUsernames(ctx)
}

// UpdateRole changes the target's role set. The effective role is always
// re-derived from the set; it is never written independently.
func (s Service) UpdateRole(ctx context.Context, actor Actor, username string, roles []string) error {
	username = strings.TrimSpace(username)
	if len(roles) == 0 {
		return domainerrors.ErrInvalidRequest
	}
	for _, role := range roles {
		if !s.Roles.Known(role) {
			return domainerrors.ErrUnknownRole
		}
	}

	target, err := s.Repo.GetModerator(ctx, username)
	if err != nil {
		return err
	}

	isSelf := strings.EqualFold(actor.Username, username)
	if !s.Roles.CanModifyRole(actor.Role, target.Role, isSelf) {
		return domainerrors.ErrForbidden
	}
	assignable := map[string]bool{}
	for _, role := range s.Roles.AssignableRoles(actor.Role) {
		assignable[role] = true
	}
	for _, role := range roles {
		if !assignable[role] {
			return domainerrors.ErrForbidden
		}
	}

	newRoles := normalizeRoles(roles, roleauthority.RoleModerator)
	effective := s.Roles.EffectiveRole(newRoles)
	if holdsAdminRank(target) && effective != roleauthority.RoleAdmin && !target.IsAdmin {
		if err := s.requireAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.Repo.SetRole(ctx, username, effective, newRoles); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("moderator role updated",
		"event", "accounts_role_updated",
		"module", "identity-access/account-security",
		"layer", "application",
		"username", username,
		"actor", actor.Username,
		"role", effective,
	)
	return nil
}

func (s Service) SetAdmin(ctx context.Context, actor Actor, username string, isAdmin bool) error {
	if !s.isManagement(actor) {
		return domainerrors.ErrForbidden
	}
	target, err := s.Repo.GetModerator(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	// Clearing the flag only matters when the role alone would not keep the
	// account at admin rank.
	if !isAdmin && target.IsAdmin && target.Role != roleauthority.RoleAdmin {
		if err := s.requireAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	return s.Repo.SetAdminFlag(ctx, target.Username, isAdmin)
}

func (s Service) SetStatus(ctx context.Context, actor Actor, username string, status string) error {
	if status != entities.StatusActive && status != entities.StatusDisabled {
		return domainerrors.ErrInvalidStatus
	}
	if !s.isManagement(actor) {
		return domainerrors.ErrForbidden
	}
	username = strings.TrimSpace(username)
	if strings.EqualFold(actor.Username, username) {
		return domainerrors.ErrSelfModification
	}
	target, err := s.Repo.GetModerator(ctx, username)
	if err != nil {
		return err
	}
	if !actor.IsAdmin && actor.Role != roleauthority.RoleAdmin &&
		s.Roles.Rank(actor.Role) <= s.Roles.Rank(target.Role) {
		return domainerrors.ErrForbidden
	}
	if status == entities.StatusDisabled && holdsAdminRank(target) {
		if err := s.requireAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	return s.Repo.SetStatus(ctx, username, status)
}

func (s Service) SetLeaders(ctx context.Context, actor Actor, username string, inGame bool, discord bool) error {
	if !s.isManagement(actor) {
		return domainerrors.ErrForbidden
	}
	if _, err := s.Repo.GetModerator(ctx, strings.TrimSpace(username)); err != nil {
		return err
	}
	return s.Repo.SetLeaderFlags(ctx, strings.TrimSpace(username), inGame, discord)
}

func (s Service) SetTrainingManager(ctx context.Context, actor Actor, username string, enabled bool) error {
	if !s.isManagement(actor) {
		return domainerrors.ErrForbidden
	}
	if _, err := s.Repo.GetModerator(ctx, strings.TrimSpace(username)); err != nil {
		return err
	}
	return s.Repo.SetTrainingManager(ctx, strings.TrimSpace(username), enabled)
}

func (s Service) SetApplicationViewer(ctx context.Context, actor Actor, username string, enabled bool) error {
	if !s.isManagement(actor) {
		return domainerrors.ErrForbidden
	}
	if _, err := s.Repo.GetModerator(ctx, strings.TrimSpace(username)); err != nil {
		return err
	}
	return s.Repo.SetApplicationViewer(ctx, strings.TrimSpace(username), enabled)
}

func (s Service) UpdateUsername(ctx context.Context, actor Actor, username string, newUsername string) error {
	if !s.isManagement(actor) {
		return domainerrors.ErrForbidden
	}
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return domainerrors.ErrInvalidRequest
	}
	if _, err := s.Repo.GetModerator(ctx, strings.TrimSpace(username)); err != nil {
		return err
	}
	if _, err := s.Repo.GetModerator(ctx, newUsername); err == nil {
		return domainerrors.ErrUsernameTaken
	}
	return s.Repo.UpdateUsername(ctx, strings.TrimSpace(username), newUsername)
}

func (s Service) UpdateEmail(ctx context.Context, actor Actor, username string, email string) error {
	if !s.isManagement(actor) {
		return domainerrors.ErrForbidden
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domainerrors.ErrInvalidRequest
	}
	username = strings.TrimSpace(username)
	if _, err := s.Repo.GetModerator(ctx, username); err != nil {
		return err
	}
	if existing, found, err := s.Repo.FindModeratorByEmail(ctx, email); err != nil {
		return err
	} else if found && !strings.EqualFold(existing.Username, username) {
		return domainerrors.ErrEmailTaken
	}
	if err := s.Repo.UpdateEmail(ctx, username, email); err != nil {
		return err
	}
	s.notify(ctx, email, "Email updated",
		"The email address on your moderator account was updated.")
	return nil
}

func (s Service) DeleteModerator(ctx context.Context, actor Actor, username string) error {
	if !s.isManagement(actor) {
		return domainerrors.ErrForbidden
	}
	username = strings.TrimSpace(username)
	if strings.EqualFold(actor.Username, username) {
		return domainerrors.ErrSelfModification
	}
	target, err := s.Repo.GetModerator(ctx, username)
	if err != nil {
		return err
	}
	if holdsAdminRank(target) {
		if err := s.requireAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.Repo.DeleteModerator(ctx, username); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("moderator deleted",
		"event", "accounts_moderator_deleted",
		"module", "identity-access/account-security",
		"layer", "application",
		"username", username,
		"actor", actor.Username,
	)
	return nil
}

// requireAnotherAdmin enforces last-admin protection: any operation that
// would strip the final admin-ranked account is refused.
func (s Service) requireAnotherAdmin(ctx context.Context) error {
	count, err := s.Repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return domainerrors.ErrLastAdmin
	}
	return nil
}

func holdsAdminRank(m entities.Moderator) bool {
	return m.IsAdmin || m.Role == roleauthority.RoleAdmin
}
