package httpadapter

import (
	"context"
	"log/slog"

	"modpanel/contexts/identity-access/account-security/application"
	"modpanel/contexts/identity-access/account-security/domain/entities"
	httptransport "modpanel/contexts/identity-access/account-security/transport/http"
)

// Handler maps HTTP DTOs to account-security application calls.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, actor application.Actor, request httptransport.RegisterRequest) (httptransport.ModeratorDTO, error) {
	logger := h.logger()
	logger.Info("http register received",
		"event", "accounts_http_register_received",
		"module", "identity-access/account-security",
		"layer", "transport",
		"username", request.Username,
		"actor", actor.Username,
	)

	moderator, err := h.Service.Register(ctx, application.RegisterCommand{
		Username:        request.Username,
		Email:           request.Email,
		Password:        request.Password,
		Role:            request.Role,
		Roles:           request.Roles,
		IsInGameLeader:  request.IsInGameLeader,
		IsDiscordLeader: request.IsDiscordLeader,
	})
	if err != nil {
		logger.Error("http register failed",
			"event", "accounts_http_register_failed",
			"module", "identity-access/account-security",
			"layer", "transport",
			"username", request.Username,
			"error", err.Error(),
		)
		return httptransport.ModeratorDTO{}, err
	}
	return moderatorDTO(moderator), nil
}

func (h Handler) LoginHandler(ctx context.Context, request httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	result, err := h.Service.Login(ctx, application.LoginCommand{
		Username: request.Username,
		Password: request.Password,
	})
	if err != nil {
		h.logger().Warn("http login failed",
			"event", "accounts_http_login_failed",
			"module", "identity-access/account-security",
			"layer", "transport",
			"username", request.Username,
			"error", err.Error(),
		)
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		AccessToken:        result.AccessToken,
		TokenType:          "bearer",
		Username:           result.Claims.Username,
		Role:               result.Claims.Role,
		Roles:              result.Claims.Roles,
		IsAdmin:            result.Claims.IsAdmin,
		IsTrainingManager:  result.Claims.IsTrainingManager,
		IsInGameLeader:     result.Claims.IsInGameLeader,
		IsDiscordLeader:    result.Claims.IsDiscordLeader,
		MustChangePassword: result.Claims.MustChangePassword,
	}, nil
}

func (h Handler) ListModeratorsHandler(ctx context.Context) (httptransport.ListModeratorsResponse, error) {
	moderators, err := h.Service.ListModerators(ctx)
	if err != nil {
		return httptransport.ListModeratorsResponse{}, err
	}
	items := make([]httptransport.ModeratorDTO, 0, len(moderators))
	for _, moderator := range moderators {
		items = append(items, moderatorDTO(moderator))
	}
	return httptransport.ListModeratorsResponse{Moderators: items}, nil
}

func (h Handler) RosterHandler(ctx context.Context) (httptransport.RosterResponse, error) {
	usernames, err := h.Service.ActiveModeratorUsernames(ctx)
	if err != nil {
		return httptransport.RosterResponse{}, err
	}
	return httptransport.RosterResponse{Usernames: usernames}, nil
}

// AssignableRolesHandler lists the roles the caller may hand out.
func (h Handler) AssignableRolesHandler(ctx context.Context, actor application.Actor) httptransport.AssignableRolesResponse {
	return httptransport.AssignableRolesResponse{
		Roles: h.Service.Roles.AssignableRoles(actor.Role),
	}
}

func (h Handler) ChangePasswordHandler(ctx context.Context, actor application.Actor, request httptransport.ChangePasswordRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.ChangePassword(ctx, actor.Username, request.OldPassword, request.NewPassword); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "password_changed"}, nil
}

func (h Handler) ResetPasswordHandler(ctx context.Context, actor application.Actor, username string, request httptransport.ResetPasswordRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.ResetPassword(ctx, actor, username, request.NewPassword); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "password_reset"}, nil
}

func (h Handler) UnlockHandler(ctx context.Context, actor application.Actor, username string) (httptransport.StatusResponse, error) {
	if err := h.Service.UnlockAccount(ctx, actor, username); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "unlocked"}, nil
}

// RequestPasswordResetHandler never discloses whether the username/email pair
// matched. The response is identical either way.
func (h Handler) RequestPasswordResetHandler(ctx context.Context, request httptransport.RequestPasswordResetRequest) httptransport.RequestPasswordResetResponse {
	if _, err := h.Service.RequestPasswordReset(ctx, request.Username, request.Email); err != nil {
		h.logger().Info("http password reset request rejected",
			"event", "accounts_http_reset_request_rejected",
			"module", "identity-access/account-security",
			"layer", "transport",
			"username", request.Username,
		)
	}
	return httptransport.RequestPasswordResetResponse{
		Message: "If the account exists, a reset token has been issued.",
	}
}

func (h Handler) RedeemResetTokenHandler(ctx context.Context, request httptransport.RedeemResetTokenRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.ResetPasswordByToken(ctx, request.Token, request.NewPassword); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "password_reset"}, nil
}

func (h Handler) UpdateRoleHandler(ctx context.Context, actor application.Actor, username string, request httptransport.UpdateRoleRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.UpdateRole(ctx, actor, username, request.Roles); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "role_updated"}, nil
}

func (h Handler) SetAdminHandler(ctx context.Context, actor application.Actor, username string, request httptransport.SetAdminRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.SetAdmin(ctx, actor, username, request.IsAdmin); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "admin_updated"}, nil
}

func (h Handler) SetStatusHandler(ctx context.Context, actor application.Actor, username string, request httptransport.SetStatusRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.SetStatus(ctx, actor, username, request.Status); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "status_updated"}, nil
}

func (h Handler) SetLeadersHandler(ctx context.Context, actor application.Actor, username string, request httptransport.SetLeadersRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.SetLeaders(ctx, actor, username, request.IsInGameLeader, request.IsDiscordLeader); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "leaders_updated"}, nil
}

func (h Handler) SetTrainingManagerHandler(ctx context.Context, actor application.Actor, username string, request httptransport.SetTrainingManagerRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.SetTrainingManager(ctx, actor, username, request.IsTrainingManager); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "training_manager_updated"}, nil
}

func (h Handler) SetApplicationViewerHandler(ctx context.Context, actor application.Actor, username string, request httptransport.SetApplicationViewerRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.SetApplicationViewer(ctx, actor, username, request.CanViewApplications); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "viewer_updated"}, nil
}

func (h Handler) UpdateUsernameHandler(ctx context.Context, actor application.Actor, username string, request httptransport.UpdateUsernameRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.UpdateUsername(ctx, actor, username, request.NewUsername); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "username_updated"}, nil
}

func (h Handler) UpdateEmailHandler(ctx context.Context, actor application.Actor, username string, request httptransport.UpdateEmailRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.UpdateEmail(ctx, actor, username, request.Email); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "email_updated"}, nil
}

func (h Handler) DeleteModeratorHandler(ctx context.Context, actor application.Actor, username string) (httptransport.StatusResponse, error) {
	if err := h.Service.DeleteModerator(ctx, actor, username); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "deleted"}, nil
}

func (h Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func moderatorDTO(m entities.Moderator) httptransport.ModeratorDTO {
	return httptransport.ModeratorDTO{
		ID:                  m.ID,
		Username:            m.Username,
		Email:               m.Email,
		Role:                m.Role,
		Roles:               m.Roles,
		Status:              m.Status,
		IsTrainingManager:   m.IsTrainingManager,
		IsInGameLeader:      m.IsInGameLeader,
		IsDiscordLeader:     m.IsDiscordLeader,
		IsAdmin:             m.IsAdmin,
		CanViewApplications: m.CanViewApplications,
		FailedLoginAttempts: m.FailedLoginAttempts,
		Locked:              m.Locked(),
		MustChangePassword:  m.MustChangePassword,
		CreatedAt:           m.CreatedAt,
		LastLogin:           m.LastLogin,
	}
}
