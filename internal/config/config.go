package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the allowance CLI and API.
type Config struct {
	// LogLevel is a zerolog level name (debug, info, warn, ...).
	LogLevel string
	// LogFormat is "console" or "json".
	LogFormat string

	// DefaultTaxYear is used when a request does not name a tax year.
	DefaultTaxYear int
	// LimitsFile optionally points at a YAML limit table merged over the built-in one.
	LimitsFile string
	// Ledger is the default ledger location: a local path, gs://bucket/object or bq://.
	Ledger string

	// Port is the HTTP listen port.
	Port string

	// GCPProjectID and BigQueryDataset locate the ledger tables for bq:// sources.
	GCPProjectID    string
	BigQueryDataset string
}

// Environment variable names.
const (
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvDefaultTaxYear  = "ISA_DEFAULT_TAX_YEAR"
	EnvLimitsFile      = "ISA_LIMITS_FILE"
	EnvLedger          = "ISA_LEDGER"
	EnvPort            = "PORT"
	EnvGCPProjectID    = "GCP_PROJECT_ID"
	EnvBigQueryDataset = "BQ_DATASET"
)

// Defaults returns the configuration used when no environment is set.
func Defaults() Config {
	return Config{
		LogLevel:        "info",
		LogFormat:       "console",
		DefaultTaxYear:  2024,
		Port:            "8080",
		BigQueryDataset: "isa",
	}
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the .env file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("Load: reading %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Defaults()

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := get(EnvLogFormat); ok {
		cfg.LogFormat = v
	}
	if v, ok := get(EnvDefaultTaxYear); ok {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1900 {
			return Config{}, fmt.Errorf("FromEnv: %s must be a four-digit year, got %q", EnvDefaultTaxYear, v)
		}
		cfg.DefaultTaxYear = year
	}
	if v, ok := get(EnvLimitsFile); ok {
		cfg.LimitsFile = v
	}
	if v, ok := get(EnvLedger); ok {
		cfg.Ledger = v
	}
	if v, ok := get(EnvPort); ok {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return Config{}, fmt.Errorf("FromEnv: %s must be a port number, got %q", EnvPort, v)
		}
		cfg.Port = v
	}
	if v, ok := get(EnvGCPProjectID); ok {
		cfg.GCPProjectID = v
	}
	if v, ok := get(EnvBigQueryDataset); ok {
		cfg.BigQueryDataset = v
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
