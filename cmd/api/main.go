package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scamscan/internal/api"
	"scamscan/internal/api/handlers"
	"scamscan/internal/config"
	"scamscan/internal/domain/services"
	"scamscan/internal/domain/services/ai"
	"scamscan/internal/infrastructure/cache"
	"scamscan/internal/infrastructure/database"
	"scamscan/internal/infrastructure/database/repository"
	"scamscan/internal/sources"
	"scamscan/pkg/logger"
)

// contentPurgeInterval is how often expired raw content is dropped
const contentPurgeInterval = 15 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting scamscan")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(cfg.Database, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisCache.Close()

	// Initialize repositories
	scanRepo := repository.NewScanRepository(db, log)
	cardRepo := repository.NewCardRepository(db, log)
	abuseRepo := repository.NewAbuseRepository(db, log)
	reportRepo := repository.NewReportRepository(db, log)

	// Threat-intelligence sources
	registry := sources.NewRegistry(cfg.ThreatIntel, log)
	log.Info().
		Int("url_checkers", len(registry.URLCheckers())).
		Int("domain_checkers", len(registry.DomainCheckers())).
		Msg("threat-intelligence sources registered")

	// Initialize services
	llmClient := ai.NewClient(cfg.Anthropic, log)
	if !llmClient.Configured() {
		log.Warn().Msg("no Anthropic API key configured, classification will use the rule-based fallback")
	}

	intel := services.NewThreatIntelService(
		registry.URLCheckers(), registry.DomainCheckers(),
		redisCache, cfg.ThreatIntel, log,
	)
	extractor := services.NewEntityExtractor(llmClient, log)
	classifier := ai.NewClassifier(llmClient, log)
	abuse := services.NewAbuseService(abuseRepo, log)
	ocr := services.NewVisionClient(cfg.OCR, log)
	if !ocr.Configured() {
		log.Warn().Msg("no Google Vision API key configured, image scans will report insufficient data")
	}

	scans := services.NewScanService(
		extractor, intel, classifier, abuse,
		scanRepo, cardRepo, ocr,
		cfg.Scan, cfg.Cards, log,
	)

	// Initialize handlers
	h := handlers.NewHandlers(handlers.Dependencies{
		Config:  *cfg,
		Scans:   scans,
		Cards:   cardRepo,
		Reports: reportRepo,
		Cache:   redisCache,
		DB:      db,
		Logger:  log,
	})

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Retention job: drop raw content past its expiry window
	go runContentPurge(ctx, scanRepo, log)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

func runContentPurge(ctx context.Context, scans *repository.ScanRepository, log *logger.Logger) {
	ticker := time.NewTicker(contentPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeCtx, cancel := context.WithTimeout(ctx, time.Minute)
			if _, err := scans.PurgeExpiredContent(purgeCtx); err != nil {
				log.Error().Err(err).Msg("content purge failed")
			}
			cancel()
		}
	}
}
