package bootstrap

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nate0911/FancyKarma-Backend/internal/config"
	"github.com/Nate0911/FancyKarma-Backend/internal/metrics"
	"github.com/Nate0911/FancyKarma-Backend/internal/reddit"
	"github.com/Nate0911/FancyKarma-Backend/internal/services"
	"github.com/Nate0911/FancyKarma-Backend/internal/sheets"
	"github.com/Nate0911/FancyKarma-Backend/internal/store"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB              *store.Store
	MetricsRecorder metrics.Recorder

	// Services
	AuditService    *services.AuditService
	VerifierService *services.VerifierService

	// HTTP
	Router *gin.Engine
	Server *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		return err
	}

	// Phase 4: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up the database and metrics
func (app *Application) initializeInfrastructure() error {
	var err error

	// Database (audit trail storage, health checks, admin log API)
	app.DB, err = store.New(app.Config.DatabaseDriver, app.Config.DatabaseDSN)
	if err != nil {
		return err
	}
	log.Info().
		Str("driver", app.Config.DatabaseDriver).
		Msg("database initialized")

	// Metrics
	app.MetricsRecorder = metrics.Init(app.Config.MetricsEnabled)
	if app.Config.MetricsEnabled {
		log.Info().Msg("prometheus metrics initialized")
	} else {
		log.Info().Msg("metrics disabled (using noop implementation)")
	}

	return nil
}

// initializeBusinessLayer creates the audit and verifier services
func (app *Application) initializeBusinessLayer() error {
	sinks, err := buildAuditSinks(app.Config, app.DB)
	if err != nil {
		return err
	}

	app.AuditService = services.NewAuditService(
		sinks,
		app.MetricsRecorder,
		app.Config.AuditEnabled,
		app.Config.AuditBufferSize,
	)

	redditClient, err := reddit.NewClient(app.Config)
	if err != nil {
		return err
	}

	app.VerifierService = services.NewVerifierService(
		redditClient,
		app.AuditService,
		app.MetricsRecorder,
		app.Config,
	)

	log.Info().
		Str("credential_mode", app.Config.CredentialMode).
		Int64("min_karma", app.Config.MinKarma).
		Msg("verifier service initialized")

	return nil
}

// buildAuditSinks assembles the configured audit sinks
func buildAuditSinks(cfg *config.Config, db *store.Store) ([]services.AuditSink, error) {
	var sinks []services.AuditSink

	if cfg.DatabaseSinkEnabled() {
		sinks = append(sinks, services.NewStoreSink(db))
	}

	if cfg.SheetSinkEnabled() {
		sheetClient, err := sheets.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, services.NewSheetSink(sheetClient, cfg.AuditSplitAge))
	}

	return sinks, nil
}

// initializeHTTPLayer sets up the router and HTTP server
func (app *Application) initializeHTTPLayer() {
	app.Router = setupRouter(app)
	app.Server = createHTTPServer(app.Config, app.Router)
}
