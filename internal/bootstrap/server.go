package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/appleboy/graceful"
	"github.com/rs/zerolog/log"

	"github.com/Nate0911/FancyKarma-Backend/internal/config"
	"github.com/Nate0911/FancyKarma-Backend/internal/services"
	"github.com/Nate0911/FancyKarma-Backend/internal/store"
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// startWithGracefulShutdown runs the server until a termination signal
// arrives, then drains the audit service and closes the database
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server)
	addLogCleanupJob(m, app.Config, app.DB)
	addServerShutdownJob(m, app.Server)
	addAuditServiceShutdownJob(m, app.AuditService)
	addStoreShutdownJob(m, app.DB)

	<-m.Done()
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("failed to start server")
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
			return err
		}

		log.Info().Msg("server exited")
		return nil
	})
}

// addAuditServiceShutdownJob adds audit service shutdown handler
func addAuditServiceShutdownJob(m *graceful.Manager, auditService *services.AuditService) {
	m.AddShutdownJob(func() error {
		log.Info().Msg("shutting down audit service")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := auditService.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error shutting down audit service")
			return err
		}
		return nil
	})
}

// addStoreShutdownJob adds database close handler
func addStoreShutdownJob(m *graceful.Manager, db *store.Store) {
	if db == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Info().Msg("closing database")
		return db.Close()
	})
}

// addLogCleanupJob adds a periodic job deleting audit rows past retention
func addLogCleanupJob(m *graceful.Manager, cfg *config.Config, db *store.Store) {
	if !cfg.DatabaseSinkEnabled() || cfg.AuditRetention <= 0 {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		cleanup := func() {
			cutoff := time.Now().Add(-cfg.AuditRetention)
			if deleted, err := db.DeleteOldVerificationLogs(cutoff); err != nil {
				log.Error().Err(err).Msg("failed to clean up old verification logs")
			} else if deleted > 0 {
				log.Info().Int64("deleted", deleted).Msg("cleaned up old verification logs")
			}
		}

		// Run cleanup immediately on startup
		cleanup()

		for {
			select {
			case <-ticker.C:
				cleanup()
			case <-ctx.Done():
				return nil
			}
		}
	})
}
