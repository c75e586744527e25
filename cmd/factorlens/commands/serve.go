package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantlab/factorlens/internal/analysisconfig"
	"github.com/quantlab/factorlens/internal/api"
	"github.com/quantlab/factorlens/internal/engine"
	"github.com/quantlab/factorlens/internal/runner"
	"github.com/quantlab/factorlens/internal/scheduler"
	"github.com/quantlab/factorlens/internal/source"
	"github.com/quantlab/factorlens/pkg/config"
	"github.com/quantlab/factorlens/pkg/database"
	"github.com/quantlab/factorlens/pkg/logger"
	"github.com/quantlab/factorlens/pkg/redis"
)

// serveCmd starts the analysis API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis API server",
	Long: `Starts the HTTP API backed by the Postgres factor and price tables.

Endpoints:
  GET  /health
  POST /api/analyze                   - run the configured analysis
  GET  /api/runs/latest/tearsheet     - most recent tear sheet (cached)
  GET  /api/runs/{id}/tearsheet       - tear sheet by run ID

When ANALYSIS_REFRESH_CRON is set, the analysis is re-run on that
schedule and the cache warmed automatically.

Example:
  go run ./cmd/factorlens serve
  go run ./cmd/factorlens serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to database")

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "factorlens")

	settings := engine.DefaultSettings()
	configHash := ""
	if analysisCfg, _, err := analysisconfig.Load(cfg.Analysis.SettingsPath); err == nil {
		settings = analysisCfg.Settings()
		if configHash, err = analysisconfig.Hash(analysisCfg); err != nil {
			return fmt.Errorf("hash settings: %w", err)
		}
		log.WithFields(map[string]interface{}{
			"path": cfg.Analysis.SettingsPath,
			"hash": configHash,
		}).Info("Analysis settings loaded")
	} else {
		log.WithError(err).Warn("Analysis settings not loaded, using defaults")
	}

	run := runner.New(
		engine.NewAnalyzer(log),
		source.NewFactorRepository(db.Pool),
		source.NewPriceRepository(db.Pool),
		source.NewGroupRepository(db.Pool),
		source.NewRunStore(db.Pool),
		cache,
		cfg.Analysis.CacheTTL,
		settings,
		configHash,
		log,
	)

	handler := api.NewAnalysisHandler(run, source.NewRunStore(db.Pool), cache, log)
	server := api.New(cfg, log, api.NewRouter(handler, log))

	var sched *scheduler.Scheduler
	if cfg.Analysis.RefreshCron != "" {
		sched = scheduler.New(log)
		job := scheduler.NewRefreshJob(run, cfg.Analysis.RefreshCron, 365, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
		sched.Start()
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
