package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradedeck/backend/internal/api"
	"github.com/tradedeck/backend/internal/api/handlers"
	"github.com/tradedeck/backend/internal/api/middleware"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server with the live score stream.

This command:
- serves setup management, scores, decisions, market data and reports
- streams score snapshots over /ws/scores
- runs the background scheduler alongside the server

Example:
  go run ./cmd/tradedeck api
  go run ./cmd/tradedeck api --port 8090 --no-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort     string
	noScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
	apiCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "serve HTTP only, without the background jobs")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	cfg, log := deps.cfg, deps.log
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// Live score stream feeds websocket subscribers as the score job runs.
	stream := api.NewScoreStream(log)

	sched, err := deps.newScheduler(stream)
	if err != nil {
		return err
	}
	if !noScheduler {
		sched.Start()
		defer sched.Stop()
	}

	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.Enabled)
	if !cfg.Auth.Enabled {
		log.Warn("Auth disabled, mutating endpoints are unprotected")
	}

	router := api.NewRouter(api.Handlers{
		Setups:    handlers.NewSetupHandler(deps.setups, log),
		Scores:    handlers.NewScoreHandler(deps.scores, deps.cache, log),
		Decisions: handlers.NewDecisionHandler(deps.setups, deps.scores, deps.decisions, deps.decider, log),
		Market:    handlers.NewMarketHandler(deps.market, log),
		Reports:   handlers.NewReportHandler(deps.reports, deps.setups, deps.scores, deps.market, deps.decisions, deps.generator, log),
		Jobs:      handlers.NewJobHandler(sched, log),
		Stream:    stream,
		Auth:      auth,
	}, log)

	server := api.NewServer(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
