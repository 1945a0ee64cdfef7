package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accountsapp "modpanel/contexts/identity-access/account-security/application"
	workflowerrors "modpanel/contexts/review-operations/application-workflow/domain/errors"
	workflowhttp "modpanel/contexts/review-operations/application-workflow/transport/http"
)

func (s *Server) registerApplicationRoutes() {
	// Submission and the intake flag are public; applicants have no account.
	s.mux.HandleFunc("POST /api/applications", s.handleSubmitApplication)
	s.mux.HandleFunc("GET /api/intake", s.handleIntakeStatus)

	s.mux.HandleFunc("GET /api/applications", s.withAuth(s.handleListApplications))
	s.mux.HandleFunc("GET /api/applications/{application_id}", s.withAuth(s.handleGetApplication))
	s.mux.HandleFunc("POST /api/applications/{application_id}/vote", s.withAuth(s.handleCastVote))
	s.mux.HandleFunc("POST /api/applications/{application_id}/comments", s.withAuth(s.handleAddComment))
	s.mux.HandleFunc("PUT /api/applications/{application_id}/status", s.withAuth(s.handleChangeStatus))
	s.mux.HandleFunc("POST /api/applications/{application_id}/team-approval", s.withAuth(s.handleTeamApprove))
	s.mux.HandleFunc("POST /api/applications/{application_id}/team-unapproval", s.withAuth(s.handleTeamUnapprove))
	s.mux.HandleFunc("DELETE /api/applications/{application_id}", s.withAuth(s.handleDeleteApplication))
	s.mux.HandleFunc("GET /api/audit-logs", s.withAuth(s.handleListAuditLogs))
	s.mux.HandleFunc("PUT /api/intake", s.withAuth(s.handleUpdateIntakeSettings))
}

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req workflowhttp.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.SubmitHandler(r.Context(), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleIntakeStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.workflow.Handler.IntakeStatusHandler(r.Context())
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	resp, err := s.workflow.Handler.ListHandler(r.Context(), workflowActor(claims), r.URL.Query().Get("search"))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	resp, err := s.workflow.Handler.GetHandler(r.Context(), workflowActor(claims), r.PathValue("application_id"))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req workflowhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.CastVoteHandler(r.Context(), workflowActor(claims), r.PathValue("application_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req workflowhttp.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.AddCommentHandler(r.Context(), workflowActor(claims), r.PathValue("application_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req workflowhttp.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.ChangeStatusHandler(r.Context(), workflowActor(claims), r.PathValue("application_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTeamApprove(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req workflowhttp.TeamApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.TeamApproveHandler(r.Context(), workflowActor(claims), r.PathValue("application_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTeamUnapprove(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req workflowhttp.TeamApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.TeamUnapproveHandler(r.Context(), workflowActor(claims), r.PathValue("application_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	resp, err := s.workflow.Handler.DeleteHandler(r.Context(), workflowActor(claims), r.PathValue("application_id"))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	resp, err := s.workflow.Handler.ListAuditLogsHandler(r.Context(), workflowActor(claims))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateIntakeSettings(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req workflowhttp.UpdateIntakeSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.UpdateIntakeSettingsHandler(r.Context(), workflowActor(claims), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeWorkflowDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflowerrors.ErrApplicationNotFound):
		writeWorkflowError(w, http.StatusNotFound, "application_not_found", err.Error())
	case errors.Is(err, workflowerrors.ErrIntakeDisabled):
		writeWorkflowError(w, http.StatusForbidden, "intake_disabled", err.Error())
	case errors.Is(err, workflowerrors.ErrForbidden),
		errors.Is(err, workflowerrors.ErrViewingForbidden):
		writeWorkflowError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, workflowerrors.ErrInvalidVote),
		errors.Is(err, workflowerrors.ErrInvalidStatus),
		errors.Is(err, workflowerrors.ErrEmptyComment),
		errors.Is(err, workflowerrors.ErrInvalidApprovalType),
		errors.Is(err, workflowerrors.ErrInvalidRequest):
		writeWorkflowError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeWorkflowError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeWorkflowError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, workflowhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
