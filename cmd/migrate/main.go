package main

import (
	"context"
	"flag"
	"os"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/avekassy1/backend-take-home/internal/config"
	infraBQ "github.com/avekassy1/backend-take-home/internal/infra/bigquery"
	"github.com/avekassy1/backend-take-home/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New()
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var (
		projectID = flag.String("project", cfg.GCPProjectID, "GCP project ID (or set GCP_PROJECT_ID)")
		datasetID = flag.String("dataset", cfg.BigQueryDataset, "BigQuery dataset ID (or set BQ_DATASET)")
		appliedBy = flag.String("applied-by", "migrate-cli", "Name of the tool applying migrations")
		dir       = flag.String("migrations", "", "Directory of NNNN_name.sql files (default: the migrations built into the binary)")
	)
	flag.Parse()

	log, err := logger.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fallback := logger.New()
		fallback.Fatal().Err(err).Msg("Failed to create logger")
	}

	ds := infraBQ.Dataset{ProjectID: *projectID, DatasetID: *datasetID}
	if err := ds.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Usage: migrate -project ID [-dataset NAME]")
	}

	var migrations []infraBQ.Migration
	if *dir == "" {
		migrations, err = infraBQ.LoadMigrations(infraBQ.EmbeddedMigrations, infraBQ.EmbeddedMigrationsDir, ds)
	} else {
		migrations, err = infraBQ.LoadMigrations(os.DirFS(*dir), ".", ds)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := bigquery.NewClient(ctx, ds.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer client.Close()

	log.Info().
		Str("project", ds.ProjectID).
		Str("dataset", ds.DatasetID).
		Int("migrations", len(migrations)).
		Msg("Connected to BigQuery")

	count, err := infraBQ.NewMigrator(client, ds, *appliedBy, log).Apply(ctx, migrations)
	if err != nil {
		log.Fatal().Err(err).Int("applied", count).Msg("Migration failed")
	}

	if count == 0 {
		log.Info().Msg("No new migrations to apply. Database is up to date.")
	} else {
		log.Info().Int("applied", count).Msg("Successfully applied migrations")
	}
}
