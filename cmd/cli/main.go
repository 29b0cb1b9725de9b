package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avekassy1/backend-take-home/internal/allowance"
	"github.com/avekassy1/backend-take-home/internal/config"
	"github.com/avekassy1/backend-take-home/internal/gcs"
	infraBQ "github.com/avekassy1/backend-take-home/internal/infra/bigquery"
	"github.com/avekassy1/backend-take-home/internal/ledger"
	"github.com/avekassy1/backend-take-home/internal/logger"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "calculate":
		runCalculate(log, cfg)
	case "limits":
		runLimits(log, cfg)
	case "upload":
		runUpload(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("ISA Allowance CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  calculate  Calculate a client's remaining ISA allowance from a ledger")
	fmt.Println("  limits     Show the annual ISA limits")
	fmt.Println("  upload     Validate a ledger document and upload it to GCS")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nLedger locations: a local YAML/JSON file, gs://bucket/object, bq:// or bq://project/dataset")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func newEngine(log zerolog.Logger, cfg config.Config) *allowance.Engine {
	limits, err := allowance.LoadLimitTable(cfg.LimitsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.LimitsFile).Msg("Failed to load limit table")
	}
	return allowance.NewEngine(limits,
		allowance.WithLogger(log),
		allowance.WithDefaultTaxYear(cfg.DefaultTaxYear),
	)
}

func runCalculate(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("calculate", flag.ExitOnError)
	clientID := fs.String("client", "", "Client ID")
	accountID := fs.String("account", "", "Restrict the calculation to one account")
	taxYear := fs.Int("tax-year", cfg.DefaultTaxYear, "Tax year, named by the calendar year it starts in")
	location := fs.String("ledger", cfg.Ledger, "Ledger location (or set ISA_LEDGER)")
	fs.Parse(os.Args[2:])

	if *clientID == "" || *location == "" {
		log.Fatal().Msg("Usage: cli calculate -client ID -ledger LOCATION [-account ID] [-tax-year YEAR]")
	}

	engine := newEngine(log, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	source, err := ledger.OpenSource(ctx, *location, ledger.Options{
		Dataset: infraBQ.Dataset{ProjectID: cfg.GCPProjectID, DatasetID: cfg.BigQueryDataset},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger")
	}
	defer source.Close()

	txns, err := source.LoadTransactions(ctx, *clientID, allowance.NewTaxYear(*taxYear))
	if err != nil {
		log.Fatal().Err(err).Str("ledger", *location).Msg("Failed to load ledger")
	}

	var res allowance.Result
	if *accountID != "" {
		res, err = engine.CalculateForAccount(*accountID, txns, *taxYear)
	} else {
		res, err = engine.Calculate(*clientID, txns, *taxYear)
	}
	if err != nil {
		log.Fatal().Err(err).Str("client_id", *clientID).Msg("Calculation failed")
	}

	renderResult(os.Stdout, *clientID, *accountID, res)
}

func runLimits(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("limits", flag.ExitOnError)
	taxYear := fs.Int("tax-year", 0, "Tax year to show (default: all supported years)")
	fs.Parse(os.Args[2:])

	engine := newEngine(log, cfg)

	if err := renderLimits(os.Stdout, engine.Limits(), *taxYear); err != nil {
		log.Fatal().Err(err).Msg("Failed to show limits")
	}
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to local ledger document")
	dest := fs.String("dest", "", "Destination GCS URI, e.g. gs://bucket/ledgers/client-1.yaml")
	fs.Parse(os.Args[2:])

	if *filePath == "" || *dest == "" {
		log.Fatal().Msg("Usage: cli upload -file PATH -dest gs://BUCKET/OBJECT")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	// Reject documents the calculator could not read back.
	if _, err := (&ledger.FileSource{Path: *filePath}).LoadTransactions(ctx, "", allowance.NewTaxYear(allowance.DefaultTaxYear)); err != nil {
		log.Fatal().Err(err).Msg("Ledger document is invalid")
	}

	log.Info().
		Str("file", *filePath).
		Str("dest", *dest).
		Msg("Uploading ledger to GCS")

	if err := gcs.NewClient().UploadFile(ctx, *dest, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to %s\n", *filePath, *dest)
}

func renderResult(w io.Writer, clientID, accountID string, res allowance.Result) {
	scope := "all accounts"
	if accountID != "" {
		scope = accountID
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Client", "Accounts", "Tax Year", "Annual Allowance", "Remaining"})
	table.Append([]string{
		clientID,
		scope,
		res.TaxYear.Label(),
		res.AnnualAllowance.StringFixed(2),
		res.RemainingAllowance.StringFixed(2),
	})
	table.Render()
}

// renderLimits prints one row per tax year and account type. taxYear 0 means every supported year.
func renderLimits(w io.Writer, table *allowance.LimitTable, taxYear int) error {
	years := table.Years()
	if taxYear != 0 {
		years = []int{taxYear}
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Tax Year", "Account Type", "Annual Limit"})
	for _, year := range years {
		limits, err := table.ForYear(year)
		if err != nil {
			return err
		}
		label := allowance.NewTaxYear(year).Label()
		for _, t := range limits.Types() {
			tw.Append([]string{label, t.String(), limits[t].StringFixed(2)})
		}
	}
	tw.Render()
	return nil
}
