package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"reservas-backend/config"
	"reservas-backend/internal/api"
	"reservas-backend/internal/auth"
	"reservas-backend/internal/booking"
	"reservas-backend/internal/db"
	"reservas-backend/internal/finder"
	"reservas-backend/internal/notification"
	"reservas-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "reservas-backend ", log.LstdFlags)

	// Secrets such as JWT_SECRET may come from a local .env file.
	if err := godotenv.Load(); err == nil {
		logger.Println("loaded environment from .env")
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret (or the JWT_SECRET environment variable) must be configured")
	}

	// Web push is optional. Without VAPID keys the portal runs with the
	// subscription endpoints answering 503.
	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys not configured; push notifications are disabled")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	// Notification workers drain booking-activity jobs in the background.
	var notifier booking.Notifier
	if webpushOptions != nil {
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		notifier = pool
	}

	orchestrator := booking.NewOrchestrator(appStore, notifier, nil)

	var finderClient *finder.Client
	if cfg.Finder.Enabled && cfg.Finder.URL != "" {
		finderClient = finder.NewClient(cfg.Finder)
	} else {
		logger.Println("environment finder not configured; /api/finder is disabled")
	}

	handler := api.NewHandler(appStore, orchestrator, tokens, webpushOptions, finderClient)

	// Initialize router
	router := api.NewRouter(handler, tokens, cfg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
