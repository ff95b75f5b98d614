package bootstrap

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Nate0911/FancyKarma-Backend/internal/config"
	"github.com/Nate0911/FancyKarma-Backend/internal/handlers"
	"github.com/Nate0911/FancyKarma-Backend/internal/metrics"
	"github.com/Nate0911/FancyKarma-Backend/internal/middleware"
	"github.com/Nate0911/FancyKarma-Backend/internal/util"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(app *Application) *gin.Engine {
	setupGinMode(app.Config)
	r := gin.New()

	// Setup middleware
	r.Use(metrics.HTTPMetricsMiddleware(app.MetricsRecorder))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(util.IPMiddleware())

	// Verification endpoint
	verifyHandler := handlers.NewVerifyHandler(app.VerifierService, app.Config)
	r.POST("/auth", verifyHandler.Verify)

	// Liveness and health endpoints
	r.GET("/", handlers.Liveness)
	r.GET("/health", handlers.Health(app.DB))

	// Metrics endpoint
	setupMetricsEndpoint(r, app.Config)

	// Admin log API
	logsHandler := handlers.NewLogsHandler(app.DB)
	api := r.Group("/api", middleware.TokenAuthMiddleware("Admin", app.Config.AdminToken))
	{
		api.GET("/logs", logsHandler.ListLogs)
		api.GET("/logs/stats", logsHandler.LogStats)
	}

	logServerStartup(app.Config)

	return r
}

// setupGinMode sets the Gin mode based on environment
func setupGinMode(cfg *config.Config) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Info().Msg("prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Info().Msg("prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.TokenAuthMiddleware("Metrics", cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Info().Msg("prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// logServerStartup logs the effective serving configuration
func logServerStartup(cfg *config.Config) {
	log.Info().
		Str("addr", cfg.ServerAddr).
		Str("env", cfg.Env).
		Str("credential_mode", cfg.CredentialMode).
		Strs("audit_sinks", cfg.AuditSinks).
		Msg("server configured")
}
