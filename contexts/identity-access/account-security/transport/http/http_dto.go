package httptransport

import "time"

// RegisterRequest creates a new moderator account.
type RegisterRequest struct {
	Username        string   `json:"username"`
	Email           string   `json:"email,omitempty"`
	Password        string   `json:"password"`
	Role            string   `json:"role,omitempty"`
	Roles           []string `json:"roles,omitempty"`
	IsInGameLeader  bool     `json:"is_in_game_leader,omitempty"`
	IsDiscordLeader bool     `json:"is_discord_leader,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken        string   `json:"access_token"`
	TokenType          string   `json:"token_type"`
	Username           string   `json:"username"`
	Role               string   `json:"role"`
	Roles              []string `json:"roles"`
	IsAdmin            bool     `json:"is_admin"`
	IsTrainingManager  bool     `json:"is_training_manager"`
	IsInGameLeader     bool     `json:"is_in_game_leader"`
	IsDiscordLeader    bool     `json:"is_discord_leader"`
	MustChangePassword bool     `json:"must_change_password"`
}

// ModeratorDTO is the list/detail projection. Credential material is never
// included.
type ModeratorDTO struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email,omitempty"`
	Role                string     `json:"role"`
	Roles               []string   `json:"roles"`
	Status              string     `json:"status"`
	IsTrainingManager   bool       `json:"is_training_manager"`
	IsInGameLeader      bool       `json:"is_in_game_leader"`
	IsDiscordLeader     bool       `json:"is_discord_leader"`
	IsAdmin             bool       `json:"is_admin"`
	CanViewApplications bool       `json:"can_view_applications"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	Locked              bool       `json:"locked"`
	MustChangePassword  bool       `json:"must_change_password"`
	CreatedAt           time.Time  `json:"created_at"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
}

type ListModeratorsResponse struct {
	Moderators []ModeratorDTO `json:"moderators"`
}

type RosterResponse struct {
	Usernames []string `json:"usernames"`
}

type AssignableRolesResponse struct {
	Roles []string `json:"roles"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type RequestPasswordResetRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RequestPasswordResetResponse struct {
	Message string `json:"message"`
}

type RedeemResetTokenRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type UpdateRoleRequest struct {
	Roles []string `json:"roles"`
}

type SetAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type SetLeadersRequest struct {
	IsInGameLeader  bool `json:"is_in_game_leader"`
	IsDiscordLeader bool `json:"is_discord_leader"`
}

type SetTrainingManagerRequest struct {
	IsTrainingManager bool `json:"is_training_manager"`
}

type SetApplicationViewerRequest struct {
	CanViewApplications bool `json:"can_view_applications"`
}

type UpdateUsernameRequest struct {
	NewUsername string `json:"new_username"`
}

type UpdateEmailRequest struct {
	Email string `json:"email"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
