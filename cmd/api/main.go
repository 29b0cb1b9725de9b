package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avekassy1/backend-take-home/internal/allowance"
	"github.com/avekassy1/backend-take-home/internal/api"
	"github.com/avekassy1/backend-take-home/internal/config"
	infraBQ "github.com/avekassy1/backend-take-home/internal/infra/bigquery"
	"github.com/avekassy1/backend-take-home/internal/ledger"
	"github.com/avekassy1/backend-take-home/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New()
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Parse command-line flags
	var (
		port       = flag.String("port", cfg.Port, "HTTP server port (or set PORT)")
		ledgerPath = flag.String("ledger", cfg.Ledger, "Ledger location for GET /api/allowance (or set ISA_LEDGER)")
	)
	flag.Parse()

	log, err := logger.NewFromConfig(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fallback := logger.New()
		fallback.Fatal().Err(err).Msg("Failed to create logger")
	}

	limits, err := allowance.LoadLimitTable(cfg.LimitsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.LimitsFile).Msg("Failed to load limit table")
	}
	engine := allowance.NewEngine(limits,
		allowance.WithLogger(log),
		allowance.WithDefaultTaxYear(cfg.DefaultTaxYear),
	)

	ctx := context.Background()

	var source ledger.Source
	if *ledgerPath == "" {
		log.Warn().Msg("No ledger configured - only inline ledgers (POST /api/allowance) are accepted")
	} else {
		source, err = ledger.OpenSource(ctx, *ledgerPath, ledger.Options{
			Dataset: infraBQ.Dataset{ProjectID: cfg.GCPProjectID, DatasetID: cfg.BigQueryDataset},
		})
		if err != nil {
			log.Fatal().Err(err).Str("ledger", *ledgerPath).Msg("Failed to open ledger")
		}
		defer source.Close()
	}

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      api.NewRouter(engine, source, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("port", *port).
			Ints("tax_years", limits.Years()).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
