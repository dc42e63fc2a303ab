// Package main is the entry point of the student mentoring service.
//
// The service sits between the student API backend and the DeepSeek LLM: a
// single GET /student-mentor/{id} request fetches the student snapshot,
// acknowledges with 202 and then computes the wellbeing assessment and the
// daily guidance in the background, posting both back to the backend.
//
// The architecture follows Clean Architecture:
// - Domain: scoring rules without external dependencies
// - Application: the analyzer and the pipeline orchestration
// - Infrastructure: backend and LLM clients, cache, audit log, task pool
// - Interface: the HTTP surface
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mentor-hub/student-mentor/config"
	"github.com/mentor-hub/student-mentor/internal/application/analyzer"
	"github.com/mentor-hub/student-mentor/internal/application/mentor"
	"github.com/mentor-hub/student-mentor/internal/infrastructure/external/backend"
	"github.com/mentor-hub/student-mentor/internal/infrastructure/external/deepseek"
	"github.com/mentor-hub/student-mentor/internal/infrastructure/persistence/postgres"
	"github.com/mentor-hub/student-mentor/internal/infrastructure/persistence/redis"
	"github.com/mentor-hub/student-mentor/internal/infrastructure/tasks"
	httpserver "github.com/mentor-hub/student-mentor/internal/interface/http"
	"github.com/mentor-hub/student-mentor/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := logger.FormatJSON
	logLevel := "info"
	if cfg.App.Debug {
		logFormat = logger.FormatText
		logLevel = "debug"
	}
	log := logger.Setup(logger.Config{
		Level:   logLevel,
		Format:  logFormat,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})

	log.Info("starting student mentor service",
		slog.String("environment", string(cfg.App.Environment)),
		slog.String("api_base_url", cfg.Backend.BaseURL),
		slog.Bool("auth_configured", cfg.Backend.Password != ""),
		slog.Bool("deepseek_configured", cfg.DeepSeek.APIKey != ""),
	)

	// ─────────────────────────────────────────────────────────────────────
	// Infrastructure
	// ─────────────────────────────────────────────────────────────────────

	backendCfg := backend.DefaultConfig(cfg.Backend.BaseURL)
	backendCfg.Username = cfg.Backend.Username
	backendCfg.Password = cfg.Backend.Password
	backendCfg.Timeout = cfg.Backend.Timeout
	backendCfg.Logger = log
	backendCfg.Debug = cfg.App.Debug
	backendClient := backend.NewClient(backendCfg)

	llmCfg := deepseek.DefaultConfig(cfg.DeepSeek.APIKey)
	llmCfg.APIURL = cfg.DeepSeek.APIURL
	llmCfg.Model = cfg.DeepSeek.Model
	llmCfg.Timeout = cfg.DeepSeek.Timeout
	llmCfg.Logger = log
	llmClient := deepseek.NewClient(llmCfg)

	var snapshotCache mentor.SnapshotCache
	if cfg.Redis.Enabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		cache, err := redis.NewCache(redisCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cache.Close()
		snapshotCache = redis.NewSnapshotCache(cache, cfg.Redis.SnapshotTTL, log)
		log.Info("snapshot cache enabled", slog.String("addr", redisCfg.Addr()))
	}

	var assessmentStore mentor.AssessmentStore
	if cfg.Database.URL != "" {
		dbCfg := postgres.DefaultConfig(cfg.Database.URL)
		dbCfg.MaxConns = int32(cfg.Database.MaxConns)
		dbCfg.MinConns = int32(cfg.Database.MinConns)
		dbCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		dbCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

		pool, err := postgres.NewPool(ctx, dbCfg)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		assessmentStore, err = postgres.NewAssessmentStore(ctx, pool)
		if err != nil {
			return fmt.Errorf("init assessment store: %w", err)
		}
		log.Info("assessment audit log enabled")
	}

	taskPool := tasks.NewPool(cfg.Tasks.PoolSize, log)

	// ─────────────────────────────────────────────────────────────────────
	// Application
	// ─────────────────────────────────────────────────────────────────────

	an := analyzer.New(llmClient, log)
	mentorService := mentor.NewService(backendClient, an, taskPool, snapshotCache, assessmentStore, log)

	// ─────────────────────────────────────────────────────────────────────
	// Interface
	// ─────────────────────────────────────────────────────────────────────

	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	serverCfg.IdleTimeout = cfg.Server.IdleTimeout
	serverCfg.EnableCORS = cfg.Server.EnableCORS
	serverCfg.AllowedOrigins = cfg.Server.AllowedOrigins

	server := httpserver.NewServer(serverCfg, httpserver.Dependencies{
		Mentor:        mentorService,
		Backend:       backendClient,
		LLMConfigured: llmClient.Configured(),
		Logger:        log,
	})

	serverErr := server.StartAsync()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	// ─────────────────────────────────────────────────────────────────────
	// Graceful shutdown: stop taking requests, then drain the pipeline.
	// ─────────────────────────────────────────────────────────────────────

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", slog.Any("error", err))
	}
	if err := taskPool.Shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("background tasks did not drain before the deadline")
		} else {
			log.Error("task pool shutdown failed", slog.Any("error", err))
		}
	}

	log.Info("service stopped")
	return nil
}
