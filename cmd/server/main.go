// Package main is the application entry point. It wires together all
// layers and starts the HTTP server.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"ticketbooth/config"
	_ "ticketbooth/docs"
	"ticketbooth/internal/adapters/auth"
	"ticketbooth/internal/adapters/broker"
	"ticketbooth/internal/adapters/payment"
	httpdelivery "ticketbooth/internal/delivery/http"
	"ticketbooth/internal/delivery/http/controllers"
	"ticketbooth/internal/delivery/http/middleware"
	"ticketbooth/internal/domain"
	"ticketbooth/internal/repository/postgres"
	"ticketbooth/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Ticketbooth API
// @version 1.0
// @description Event ticketing API: browse events, book tickets, verify at the door.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	var notifier domain.BookingNotifier
	if cfg.RabbitURL != "" {
		notifier, err = broker.NewRabbitNotifier(cfg.RabbitURL)
		if err != nil {
			logger.Warn("message broker unavailable, confirmations will not be published", "err", err)
			notifier = nil
		}
	}

	tokens := auth.NewJWTTokens(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(12)
	gateway := payment.NewMockGateway()

	eventSvc := services.NewEventService(eventRepo, serviceTimeout)
	bookingSvc := services.NewBookingService(eventRepo, bookingRepo, gateway, notifier, logger, serviceTimeout)
	verificationSvc := services.NewVerificationService(bookingRepo, eventRepo, serviceTimeout)
	authSvc := services.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, hasher, tokens, cfg.TokenExpiry, serviceTimeout)

	cache := config.NewRedisClient(cfg.RedisAddr)
	if cache == nil && cfg.RedisAddr != "" {
		logger.Warn("redis unavailable, response caching disabled", "addr", cfg.RedisAddr)
	}

	mux := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Events:       controllers.NewEventController(logger, eventSvc),
		Bookings:     controllers.NewBookingController(logger, bookingSvc),
		Verification: controllers.NewVerificationController(logger, verificationSvc),
		Admin:        controllers.NewAdminController(logger, eventSvc),
		Auth:         controllers.NewAuthController(logger, authSvc),
		Verifier:     tokens,
		Cache:        cache,
		CacheTTL:     cfg.CacheTTL,
	})

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
