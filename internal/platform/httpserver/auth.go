package httpserver

import (
	"net/http"
	"strings"

	accountsapp "modpanel/contexts/identity-access/account-security/application"
	accountshttp "modpanel/contexts/identity-access/account-security/transport/http"
	workflowapp "modpanel/contexts/review-operations/application-workflow/application"
	pollapp "modpanel/contexts/review-operations/poll-consensus/application"
)

// authenticate resolves the caller's claims from the Authorization header.
// Token verification goes through the account-security issuer, so every
// route shares one signing secret and one claim shape.
func (s *Server) authenticate(r *http.Request) (accountsapp.Claims, bool) {
	header := r.Header.Get("Authorization")
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return accountsapp.Claims{}, false
	}
	claims, err := s.accounts.Service.Tokens.Verify(strings.TrimSpace(raw))
	if err != nil {
		return accountsapp.Claims{}, false
	}
	return claims, true
}

// withAuth wraps a handler that needs a verified caller. Unauthenticated
// requests get a uniform 401 before any route logic runs.
func (s *Server) withAuth(next func(http.ResponseWriter, *http.Request, accountsapp.Claims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.authenticate(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, accountshttp.ErrorResponse{
				Code:    "unauthorized",
				Message: "a valid bearer token is required",
			})
			return
		}
		next(w, r, claims)
	}
}

func accountsActor(claims accountsapp.Claims) accountsapp.Actor {
	return accountsapp.Actor{
		Username:          claims.Username,
		Role:              claims.Role,
		Roles:             claims.Roles,
		IsAdmin:           claims.IsAdmin,
		IsTrainingManager: claims.IsTrainingManager,
		IsInGameLeader:    claims.IsInGameLeader,
		IsDiscordLeader:   claims.IsDiscordLeader,
	}
}

func workflowActor(claims accountsapp.Claims) workflowapp.Actor {
	return workflowapp.Actor{
		Username:          claims.Username,
		Role:              claims.Role,
		IsAdmin:           claims.IsAdmin,
		IsTrainingManager: claims.IsTrainingManager,
		IsInGameLeader:    claims.IsInGameLeader,
		IsDiscordLeader:   claims.IsDiscordLeader,
	}
}

func pollActor(claims accountsapp.Claims) pollapp.Actor {
	return pollapp.Actor{
		Username: claims.Username,
		Role:     claims.Role,
		IsAdmin:  claims.IsAdmin,
	}
}
