package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	glhook "gopkg.in/go-playground/webhooks.v5/gitlab"

	"reviewgate/internal/config"
	"reviewgate/internal/dispatch"
	"reviewgate/internal/review"
)

// MergeTrigger issues the external accept call. Satisfied by *trigger.Trigger
// and by test doubles.
type MergeTrigger interface {
	Execute(ctx context.Context, projectID, iid int) error
}

// Server is the webhook-facing HTTP server.
type Server struct {
	router  chi.Router
	hook    *glhook.Webhook
	trigger MergeTrigger
	runner  *dispatch.Runner
	rule    review.BoundaryRule
	log     *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(trig MergeTrigger, runner *dispatch.Runner, log *slog.Logger, cfg config.Config) (*Server, error) {
	hook, err := glhook.New(glhook.Options.Secret(cfg.WebhookSecret))
	if err != nil {
		return nil, err
	}
	s := &Server{
		hook:    hook,
		trigger: trig,
		runner:  runner,
		rule:    review.CloseSameOrShallower,
		log:     log,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/webhook", s.handleWebhook)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
