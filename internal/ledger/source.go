package ledger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avekassy1/backend-take-home/internal/allowance"
	"github.com/avekassy1/backend-take-home/internal/domain"
	"github.com/avekassy1/backend-take-home/internal/gcs"
	infra "github.com/avekassy1/backend-take-home/internal/infra/bigquery"
	"github.com/avekassy1/backend-take-home/internal/logger"
)

// Source supplies a client's transactions for a tax year. Implementations may
// return transactions outside the year or belonging to other clients; the
// allowance engine filters them.
type Source interface {
	LoadTransactions(ctx context.Context, clientID string, ty allowance.TaxYear) ([]domain.Transaction, error)
	Close() error
}

// FileSource reads a ledger document from the local filesystem.
type FileSource struct {
	Path string
}

// LoadTransactions reads and resolves the whole document.
func (s *FileSource) LoadTransactions(ctx context.Context, clientID string, ty allowance.TaxYear) ([]domain.Transaction, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("FileSource: reading %s: %w", s.Path, err)
	}
	return decode(data, s.Path)
}

// Close is a no-op.
func (s *FileSource) Close() error { return nil }

// GCSSource reads a ledger document from a gs:// URI.
type GCSSource struct {
	URI     string
	Storage gcs.StorageService
}

// LoadTransactions downloads and resolves the whole document.
func (s *GCSSource) LoadTransactions(ctx context.Context, clientID string, ty allowance.TaxYear) ([]domain.Transaction, error) {
	data, err := s.Storage.Fetch(ctx, s.URI)
	if err != nil {
		return nil, fmt.Errorf("GCSSource: %w", err)
	}
	log := logger.FromContext(ctx)
	log.Debug().
		Str("file", gcs.Filename(s.URI)).
		Int("bytes", len(data)).
		Msg("fetched ledger document")
	return decode(data, s.URI)
}

// Close is a no-op.
func (s *GCSSource) Close() error { return nil }

// RepositorySource reads a client's ledger from the warehouse tables.
type RepositorySource struct {
	Repo infra.LedgerRepository
}

// LoadTransactions queries the client's accounts and the transactions dated
// within the tax year's calendar range, boundary days included.
func (s *RepositorySource) LoadTransactions(ctx context.Context, clientID string, ty allowance.TaxYear) ([]domain.Transaction, error) {
	accounts, err := s.Repo.ListAccountsForClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("RepositorySource: listing accounts: %w", err)
	}
	rows, err := s.Repo.QueryTransactionsForClient(ctx, clientID, ty.Start, ty.End)
	if err != nil {
		return nil, fmt.Errorf("RepositorySource: querying transactions: %w", err)
	}
	txns, err := infra.BuildTransactions(accounts, rows)
	if err != nil {
		return nil, fmt.Errorf("RepositorySource: %w", err)
	}
	return txns, nil
}

// Close closes the repository.
func (s *RepositorySource) Close() error {
	return s.Repo.Close()
}

func decode(data []byte, name string) ([]domain.Transaction, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	txns, err := doc.Resolve()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return txns, nil
}

// Options configures OpenSource.
type Options struct {
	// Dataset is used for bq:// locations that do not name their own project and dataset.
	Dataset infra.Dataset
	// Storage overrides the GCS client; nil means the real one.
	Storage gcs.StorageService
}

// OpenSource picks a Source for a ledger location:
//
//	gs://bucket/object          ledger document in Cloud Storage
//	bq://                       warehouse tables from Options.Dataset
//	bq://project/dataset        warehouse tables in the named dataset
//	anything else               local ledger document
func OpenSource(ctx context.Context, location string, opts Options) (Source, error) {
	switch {
	case location == "":
		return nil, fmt.Errorf("OpenSource: ledger location is required")

	case strings.HasPrefix(location, "gs://"):
		if _, _, err := gcs.ParseURI(location); err != nil {
			return nil, fmt.Errorf("OpenSource: %w", err)
		}
		storage := opts.Storage
		if storage == nil {
			storage = gcs.NewClient()
		}
		return &GCSSource{URI: location, Storage: storage}, nil

	case strings.HasPrefix(location, "bq://"):
		ds, err := parseDataset(location, opts.Dataset)
		if err != nil {
			return nil, fmt.Errorf("OpenSource: %w", err)
		}
		repo, err := infra.NewBigQueryLedgerRepository(ctx, ds)
		if err != nil {
			return nil, fmt.Errorf("OpenSource: %w", err)
		}
		return &RepositorySource{Repo: repo}, nil

	default:
		return &FileSource{Path: location}, nil
	}
}

func parseDataset(location string, fallback infra.Dataset) (infra.Dataset, error) {
	rest := strings.Trim(strings.TrimPrefix(location, "bq://"), "/")
	if rest == "" {
		return fallback, fallback.Validate()
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return infra.Dataset{}, fmt.Errorf("invalid BigQuery location %q: want bq://project/dataset", location)
	}
	return infra.Dataset{ProjectID: parts[0], DatasetID: parts[1]}, nil
}
