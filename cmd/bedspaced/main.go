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

	"bedspace-scheduling-backend/config"
	"bedspace-scheduling-backend/internal/api"
	"bedspace-scheduling-backend/internal/db"
	"bedspace-scheduling-backend/internal/govuk"
	"bedspace-scheduling-backend/internal/person"
	"bedspace-scheduling-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "bedspace-backend ", log.LstdFlags)

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

	if cfg.PersonDirectory.URL == "" {
		logger.Fatalf("person directory URL must be configured")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Upstream collaborators: the GOV.UK bank-holiday feed behind a TTL cache,
	// and the person directory used to annotate search overlaps.
	holidays := govuk.NewCachedSource(govuk.NewClient(&cfg.BankHolidays), cfg.BankHolidays.CacheTTL)
	persons := person.NewDirectory(&cfg.PersonDirectory)

	router := api.NewRouter(cfg, appStore, holidays, persons)
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

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
