// Package server is the composition root: it wires the database, services,
// handlers, and middleware into one router and owns the HTTP lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dagem/foodbridge/internal/auth"
	"github.com/dagem/foodbridge/internal/config"
	"github.com/dagem/foodbridge/internal/handler"
	"github.com/dagem/foodbridge/internal/middleware"
	sqliteRepo "github.com/dagem/foodbridge/internal/repository/sqlite"
	"github.com/dagem/foodbridge/internal/service"
)

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown so the WAL is flushed.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain. Each layer receives only the
// layer below it: handlers get services, services get repository
// interfaces, and only this package sees the concrete sqlite.DB.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.cfg.JWTSecret, time.Duration(s.cfg.JWTTTLHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	if s.cfg.BcryptCost > 0 {
		passwords = auth.NewPasswordServiceWithCost(s.cfg.BcryptCost)
	}

	accounts := service.NewAccountService(s.db, tokens, passwords, s.logger)
	registry := service.NewRegistryService(s.db, s.db, accounts, s.logger)
	matching := service.NewMatchingService(s.db, s.db, s.db, s.logger)
	reviews := service.NewReviewService(s.db, s.db, s.logger)
	campaigns := service.NewCampaignService(s.db, accounts, s.logger)
	stats := service.NewStatsService(s.db, accounts, s.logger)

	authHandler := handler.NewAuthHandler(accounts, s.logger)
	donationHandler := handler.NewDonationHandler(registry, s.logger)
	requestHandler := handler.NewRequestHandler(registry, s.logger)
	matchHandler := handler.NewMatchHandler(matching, s.logger)
	reviewHandler := handler.NewReviewHandler(reviews, s.logger)
	campaignHandler := handler.NewCampaignHandler(campaigns, s.cfg.BaseURL, s.logger)
	dashboardHandler := handler.NewDashboardHandler(stats, s.logger)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public routes: registration, login, and read-only browsing.
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Get("/donations", donationHandler.HandleBrowse)
		r.Get("/requests", requestHandler.HandleBrowse)

		r.Get("/campaigns", campaignHandler.HandleList)
		r.Get("/campaigns/{id}", campaignHandler.HandleGet)
		r.Get("/campaigns/{id}/qr", campaignHandler.HandleQR)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/auth/me", authHandler.HandleMe)

			r.Post("/donations", donationHandler.HandleCreate)
			r.Get("/donations/my", donationHandler.HandleMine)

			r.Post("/requests", requestHandler.HandleCreate)
			r.Get("/requests/my", requestHandler.HandleMine)

			r.Post("/matches", matchHandler.HandlePropose)
			r.Get("/matches/my", matchHandler.HandleMine)
			r.Put("/matches/{id}/status", matchHandler.HandleUpdateStatus)
			r.Get("/matches/{id}/reviews", reviewHandler.HandleByMatch)

			r.Post("/reviews", reviewHandler.HandleCreate)

			r.Post("/campaigns", campaignHandler.HandleCreate)
			r.Post("/campaigns/{id}/donate", campaignHandler.HandleDonate)

			r.Get("/dashboard/stats", dashboardHandler.HandleStats)
		})
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
