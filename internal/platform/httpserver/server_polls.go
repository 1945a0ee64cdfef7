package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accountsapp "modpanel/contexts/identity-access/account-security/application"
	pollerrors "modpanel/contexts/review-operations/poll-consensus/domain/errors"
	pollhttp "modpanel/contexts/review-operations/poll-consensus/transport/http"
)

func (s *Server) registerPollRoutes() {
	s.mux.HandleFunc("POST /api/polls", s.withAuth(s.handleCreatePoll))
	s.mux.HandleFunc("GET /api/polls", s.withAuth(s.handleListActivePolls))
	s.mux.HandleFunc("GET /api/polls/archived", s.withAuth(s.handleListArchivedPolls))
	s.mux.HandleFunc("GET /api/polls/check-new", s.withAuth(s.handleCheckNewPolls))
	s.mux.HandleFunc("POST /api/polls/close-expired", s.withAuth(s.handleCloseExpiredPolls))
	s.mux.HandleFunc("POST /api/polls/{poll_id}/vote", s.withAuth(s.handlePollVote))
	s.mux.HandleFunc("POST /api/polls/{poll_id}/view", s.withAuth(s.handlePollMarkViewed))
	s.mux.HandleFunc("POST /api/polls/{poll_id}/close", s.withAuth(s.handleClosePoll))
	s.mux.HandleFunc("DELETE /api/polls/{poll_id}", s.withAuth(s.handleDeletePoll))
}

func (s *Server) handleCreatePoll(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req pollhttp.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePollError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.polls.Handler.CreateHandler(r.Context(), pollActor(claims), req)
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListActivePolls(w http.ResponseWriter, r *http.Request, _ accountsapp.Claims) {
	resp, err := s.polls.Handler.ListActiveHandler(r.Context())
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListArchivedPolls(w http.ResponseWriter, r *http.Request, _ accountsapp.Claims) {
	resp, err := s.polls.Handler.ListArchivedHandler(r.Context())
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckNewPolls(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	resp, err := s.polls.Handler.UnviewedCountHandler(r.Context(), pollActor(claims))
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseExpiredPolls(w http.ResponseWriter, r *http.Request, _ accountsapp.Claims) {
	resp, err := s.polls.Handler.CloseExpiredHandler(r.Context())
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePollVote(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	var req pollhttp.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePollError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.polls.Handler.VoteHandler(r.Context(), pollActor(claims), r.PathValue("poll_id"), req)
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePollMarkViewed(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	resp, err := s.polls.Handler.MarkViewedHandler(r.Context(), pollActor(claims), r.PathValue("poll_id"))
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClosePoll(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	if err := s.polls.Service.Close(r.Context(), pollActor(claims), r.PathValue("poll_id")); err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pollhttp.MessageResponse{Message: "Poll closed successfully"})
}

func (s *Server) handleDeletePoll(w http.ResponseWriter, r *http.Request, claims accountsapp.Claims) {
	resp, err := s.polls.Handler.DeleteHandler(r.Context(), pollActor(claims), r.PathValue("poll_id"))
	if err != nil {
		writePollDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePollDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pollerrors.ErrPollNotFound):
		writePollError(w, http.StatusNotFound, "poll_not_found", err.Error())
	case errors.Is(err, pollerrors.ErrForbidden):
		writePollError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, pollerrors.ErrPollClosed),
		errors.Is(err, pollerrors.ErrAlreadyVoted),
		errors.Is(err, pollerrors.ErrTooManyActivePolls):
		writePollError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, pollerrors.ErrInvalidOption),
		errors.Is(err, pollerrors.ErrInvalidOptionCount),
		errors.Is(err, pollerrors.ErrInvalidRequest):
		writePollError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writePollError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePollError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, pollhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
