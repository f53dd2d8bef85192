package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/config"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/db"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/ocr"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/pipeline"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/repository"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/router"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/services"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/storage"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Raw upload storage
	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		logger.Fatal("Failed to create temp directory", "error", err, "temp_dir", cfg.TempDir)
	}

	// OCR pipeline
	recognizer := ocr.NewRecognizer(ocr.NewTesseractEngine(cfg.OCRLanguage), ocr.RecognizerConfig{
		Workers: cfg.OCRWorkers,
		Timeout: cfg.OCRTimeout,
		Logger:  logger.With("component", "ocr"),
	})
	processor := pipeline.NewProcessor(recognizer, logger.With("component", "pipeline"))

	// Services
	repo := repository.NewRepository(database)
	docService := services.NewDocumentService(repo, store, processor, cfg, logger)
	reportService := services.NewReportService(repo, logger)

	// Setup HTTP router
	handler := router.NewRouter(docService, reportService, router.Options{MaxFileSize: cfg.MaxFileSize}, logger)

	// OCR of a large scan can take a while; the write timeout covers it.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"s3", cfg.UseS3(),
			"postgres", db.IsPostgresURL(cfg.DatabaseURL),
			"ocr_workers", cfg.OCRWorkers)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
