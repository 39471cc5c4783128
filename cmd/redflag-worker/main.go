package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"redflag/internal/amqp"
	"redflag/internal/config"
	applog "redflag/internal/log"
	"redflag/internal/services"
	"redflag/internal/sheets"
	gsheet "redflag/internal/sheets/google"
	"redflag/internal/storage"
	"redflag/internal/worker"
	"redflag/internal/ynab"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(cfg.LogLevel)
	applog.SetDefault(logger)

	logger.Info("Starting redflag-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	client, err := ynab.New(ynab.Config{
		Token:    cfg.APIToken,
		BudgetID: cfg.BudgetID,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.HTTPTimeout,
		CacheTTL: cfg.CacheTTL,
	}, nil)
	if err != nil {
		logger.Error("Failed to initialize budget service client", "error", err)
		os.Exit(1)
	}
	svc := services.NewFlaggedService(client, cfg.CacheTTL)

	archive, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize run archive", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer archive.Close()

	// Spreadsheet mirroring is optional
	var publisher sheets.ReportPublisher
	if cfg.GoogleSpreadsheetID != "" {
		gclient, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		publisher = gclient
		logger.Info("Google Sheets publishing enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets publishing disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event publishing and on-demand requests are optional with the broker
	var notifier worker.Notifier
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		notifier = amqpClient
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	reportWorker := worker.NewReportWorker(svc, archive, publisher, notifier, cfg.ReportsDir)

	if cfg.AMQPURL != "" {
		go func() {
			err := amqp.ConsumeRequestsWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, reportWorker.HandleRequestMessage)
			if err != nil && err != context.Canceled {
				logger.Error("Request consumption failed", "error", err)
				cancel()
			}
		}()
	}

	go reportWorker.RunPeriodic(ctx, cfg.ReportInterval, cfg.ReportWindowDays)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight report generation a moment to finish
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
