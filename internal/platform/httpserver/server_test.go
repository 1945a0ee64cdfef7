package httpserver

import (
	"log/slog"
	"testing"
	"time"

	accountsecurity "modpanel/contexts/identity-access/account-security"
	accountsapp "modpanel/contexts/identity-access/account-security/application"
	roleauthority "modpanel/contexts/identity-access/role-authority"
	applicationworkflow "modpanel/contexts/review-operations/application-workflow"
	pollconsensus "modpanel/contexts/review-operations/poll-consensus"
)

var testTokenSecret = []byte("httpserver-test-secret")

func newTestServer() *Server {
	logger := slog.Default()
	accounts := accountsecurity.NewInMemoryModule(testTokenSecret, logger)
	workflow := applicationworkflow.NewInMemoryModule(logger)
	polls := pollconsensus.NewInMemoryModule(nil, logger)
	return New(accounts, workflow, polls, logger, ":0")
}

func bearerToken(t *testing.T, s *Server, username string, role string, isAdmin bool) string {
	t.Helper()
	token, err := s.accounts.Service.Tokens.Issue(accountsapp.Claims{
		Username: username,
		Role:     role,
		Roles:    []string{role},
		IsAdmin:  isAdmin,
	}, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func moderatorToken(t *testing.T, s *Server) string {
	return bearerToken(t, s, "niko", roleauthority.RoleModerator, false)
}

func seniorToken(t *testing.T, s *Server) string {
	return bearerToken(t, s, "hana", roleauthority.RoleSMod, false)
}

func managerToken(t *testing.T, s *Server) string {
	return bearerToken(t, s, "mira", roleauthority.RoleMMod, false)
}

func adminToken(t *testing.T, s *Server) string {
	return bearerToken(t, s, "root", roleauthority.RoleAdmin, true)
}
