package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accountsapp "modpanel/contexts/identity-access/account-security/application"
	accountserrors "modpanel/contexts/identity-access/account-security/domain/errors"
	accountshttp "modpanel/contexts/identity-access/account-security/transport/http"
)

func (s *Server) registerAccountRoutes() {
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/password-reset/request", s.handleRequestPasswordReset)
	s.mux.HandleFunc("POST /api/auth/password-reset/redeem", s.handleRedeemResetToken)

	s.mux.HandleFunc("POST /api/auth/register", s.withAuth(s.handleRegister))
	s.mux.HandleFunc("POST /api/auth/change-password", s.withAuth(s.handleChangePassword))

	s.mux.HandleFunc("GET /api/moderators", s.withAuth(s.handleListModerators))
	s.mux.HandleFunc("GET /api/moderators/roster", s.withAuth(s.handleRoster))
	s.mux.HandleFunc("GET /api/moderators/assignable-roles", s.withAuth(s.handleAssignableRoles))
	s.mux.HandleFunc("POST /api/moderators/{username}/reset-password", s.withAuth(s.handleResetPassword))
	s.mux.HandleFunc("POST /api/moderators/{username}/unlock", s.withAuth(s.handleUnlock))
	s.mux.HandleFunc("PUT /api/moderators/{username}/role", s.withAuth(s.handleUpdateRole))
	s.mux.HandleFunc("PUT /api/moderators/{username}/admin", s.withAuth(s.handleSetAdmin))
	s.mux.HandleFunc("PUT /api/moderators/{username}/status", s.withAuth(s.handleSetStatus))
	s.mux.HandleFunc("PUT /api/moderators/{username}/leaders", s.withAuth(s.handleSetLeaders))
	s.mux.HandleFunc("PUT /api/moderators/{username}/training-manager", s.withAuth(s.handleSetTrainingManager))
	s.mux.HandleFunc("PUT /api/moderators/{username}/application-viewer", s.withAuth(s.handleSetApplicationViewer))
	s.mux.HandleFunc("PUT /api/moderators/{username}/username", s.withAuth(s.handleUpdateUsername))
	s.mux.HandleFunc("PUT /api/moderators/{username}/email", s.withAuth(s.handleUpdateEmail))
	s.mux.HandleFunc("DELETE /api/moderators/{username}", s.withAuth(s.handleDeleteModerator))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req accountshttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req accountshttp.RequestPasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	writeJSON(w, http.StatusOK, s.accounts.Handler.RequestPasswordResetHandler(r.Context(), req))
}

func (s *Server) handleRedeemResetToken(w http.ResponseWriter, r *http.Request) {
	var req accountshttp.RedeemResetTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.RedeemResetTokenHandler(r.Context(), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.RegisterHandler(r.Context(), accountsActor(claims), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.ChangePasswordHandler(r.Context(), accountsActor(claims), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListModerators(w http.ResponseWriter, r *http.Request, _ accountsapp.Claims) {
	resp, err := s.accounts.Handler.ListModeratorsHandler(r.Context())
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request, _ accountsapp.Claims) {
	resp, err := s.accounts.Handler.RosterHandler(r.Context())
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignableRoles(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	writeJSON(w, http.StatusOK, s.accounts.Handler.AssignableRolesHandler(r.Context(), accountsActor(claims)))
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.ResetPasswordHandler(r.Context(), accountsActor(claims), r.PathValue("username"), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	resp, err := s.accounts.Handler.UnlockHandler(r.Context(), accountsActor(claims), r.PathValue("username"))
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.UpdateRoleHandler(r.Context(), accountsActor(claims), r.PathValue("username"), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetAdmin(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.SetAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.SetAdminHandler(r.Context(), accountsActor(claims), r.PathValue("username"), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.SetStatusHandler(r.Context(), accountsActor(claims), r.PathValue("username"), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetLeaders(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.SetLeadersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.SetLeadersHandler(r.Context(), accountsActor(claims), r.PathValue("username"), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetTrainingManager(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.SetTrainingManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.SetTrainingManagerHandler(r.Context(), accountsActor(claims), r.PathValue("username"), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetApplicationViewer(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.SetApplicationViewerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.SetApplicationViewerHandler(r.Context(), accountsActor(claims), r.PathValue("username"), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateUsername(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.UpdateUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.UpdateUsernameHandler(r.Context(), accountsActor(claims), r.PathValue("username"), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateEmail(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req accountshttp.UpdateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.UpdateEmailHandler(r.Context(), accountsActor(claims), r.PathValue("username"), req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteModerator(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	resp, err := s.accounts.Handler.DeleteModeratorHandler(r.Context(), accountsActor(claims), r.PathValue("username"))
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAccountsDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accountserrors.ErrInvalidCredentials):
		writeAccountsError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, accountserrors.ErrAccountLocked):
		writeAccountsError(w, http.StatusLocked, "account_locked", err.Error())
	case errors.Is(err, accountserrors.ErrAccountDisabled):
		writeAccountsError(w, http.StatusForbidden, "account_disabled", err.Error())
	case errors.Is(err, accountserrors.ErrForbidden),
		errors.Is(err, accountserrors.ErrSelfModification):
		writeAccountsError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, accountserrors.ErrModeratorNotFound):
		writeAccountsError(w, http.StatusNotFound, "moderator_not_found", err.Error())
	case errors.Is(err, accountserrors.ErrUsernameTaken),
		errors.Is(err, accountserrors.ErrEmailTaken),
		errors.Is(err, accountserrors.ErrLastAdmin):
		writeAccountsError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, accountserrors.ErrWeakPassword),
		errors.Is(err, accountserrors.ErrPasswordReused),
		errors.Is(err, accountserrors.ErrIncorrectPassword),
		errors.Is(err, accountserrors.ErrUnknownRole),
		errors.Is(err, accountserrors.ErrInvalidStatus),
		errors.Is(err, accountserrors.ErrResetTokenInvalid),
		errors.Is(err, accountserrors.ErrResetTokenExpired),
		errors.Is(err, accountserrors.ErrInvalidRequest):
		writeAccountsError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeAccountsError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAccountsError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accountshttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
