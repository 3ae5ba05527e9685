package handlers

import (
	"scamscan/internal/config"
	"scamscan/internal/domain/services"
	"scamscan/internal/infrastructure/cache"
	"scamscan/internal/infrastructure/database"
	"scamscan/internal/infrastructure/database/repository"
	"scamscan/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health *HealthHandler
	Scan   *ScanHandler
	Card   *CardHandler
	Report *ReportHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Config  config.Config
	Scans   *services.ScanService
	Cards   *repository.CardRepository
	Reports *repository.ReportRepository
	Cache   *cache.RedisCache
	DB      *database.PostgresDB
	Logger  *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Config.App.Version, deps.DB, deps.Cache, deps.Logger),
		Scan:   NewScanHandler(deps.Scans, deps.Config.Scan, deps.Logger),
		Card:   NewCardHandler(deps.Cards, deps.Cache, deps.Logger),
		Report: NewReportHandler(deps.Reports, deps.Logger),
	}
}
