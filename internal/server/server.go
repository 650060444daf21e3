package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egov-mobile/qr-sign-service/app/internal/config"
	"github.com/egov-mobile/qr-sign-service/app/internal/database"
	"github.com/egov-mobile/qr-sign-service/app/internal/logger"
	"github.com/egov-mobile/qr-sign-service/app/internal/server/handlers"
	qrmiddleware "github.com/egov-mobile/qr-sign-service/app/internal/server/middleware"
	"github.com/egov-mobile/qr-sign-service/app/internal/services"
	"github.com/egov-mobile/qr-sign-service/app/internal/version"
)

type Server struct {
	pool     *pgxpool.Pool
	queries  *database.Queries
	config   *config.ServerEnvironment
	logger   *slog.Logger
	router   *chi.Mux
	services *services.Services
}

func NewServer(
	pool *pgxpool.Pool,
	queries *database.Queries,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) *Server {
	server := &Server{
		pool:     pool,
		queries:  queries,
		config:   cfg,
		logger:   logger,
		router:   chi.NewRouter(),
		services: services.NewServices(cfg, queries),
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(qrmiddleware.SecurityHeaders(s.config.Environment))
	s.router.Use(qrmiddleware.RequestSizeLimit(s.config.MaxRequestSize))
	s.router.Use(qrmiddleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
}

func (s *Server) registerRoutes() {
	signHandler := handlers.NewSignHandler(s.services.Signing)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/mgovSign", signHandler.HandleInitSign)
		r.Get("/egov-api1/{transactionId}", signHandler.HandleMetadata)
		r.Post("/sign-process/{transactionId}", signHandler.HandleGetDocuments)
		r.Put("/sign-process/{transactionId}", signHandler.HandleSubmitSigned)
	})

	s.router.Get("/health", handlers.HandleHealth)
	s.router.Get("/ready", handlers.HandleReadiness(s.queries))

	info := version.Get()
	s.router.Get("/version", handlers.HandleVersion(info.Version, info.GitCommit, info.BuildDate))
}

// Router exposes the configured mux, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

func (s *Server) DatabaseShutdown() {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("database connection closed")
	}
}
