package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	accountsecurity "modpanel/contexts/identity-access/account-security"
	applicationworkflow "modpanel/contexts/review-operations/application-workflow"
	pollconsensus "modpanel/contexts/review-operations/poll-consensus"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "modpanel/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	accounts accountsecurity.Module
	workflow applicationworkflow.Module
	polls    pollconsensus.Module
}

func New(
	accounts accountsecurity.Module,
	workflow applicationworkflow.Module,
	polls pollconsensus.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		accounts: accounts,
		workflow: workflow,
		polls:    polls,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerAccountRoutes()
	s.registerApplicationRoutes()
	s.registerPollRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
