package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"reviewgate/internal/api"
	"reviewgate/internal/config"
	"reviewgate/internal/dispatch"
	"reviewgate/internal/trigger"
)

func main() {
	cfg := config.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLevel(cfg.LogLevel),
	}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the GitLab client.
	client, err := gitlab.NewClient(cfg.GitLabToken, gitlab.WithBaseURL(cfg.GitLabURL))
	if err != nil {
		log.Error("gitlab client", "error", err)
		os.Exit(1)
	}
	trig := trigger.New(client.MergeRequests, log, cfg.MergeTimeout)

	// Initialize the background merge dispatcher.
	runner := dispatch.NewRunner(cfg.MaxQueueSize, log)
	runner.Start(ctx, cfg.WorkerCount)

	// Initialize the HTTP server.
	srv, err := api.NewServer(trig, runner, log, cfg)
	if err != nil {
		log.Error("server setup", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: stop accepting hooks, then drain queued merges.
	// ListenAndServe returns as soon as Shutdown is called, so main must
	// block on done or the process exits mid-drain.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		runner.Stop()
	}()

	log.Info("starting reviewgate", "port", cfg.Port, "gitlab_url", cfg.GitLabURL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
