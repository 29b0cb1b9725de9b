package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// LedgerRepository provides read access to the ledger tables.
type LedgerRepository interface {
	// ListAccountsForClient retrieves all accounts owned by a client.
	ListAccountsForClient(ctx context.Context, clientID string) ([]*AccountRow, error)

	// QueryTransactionsForClient queries a client's transactions dated between start and end inclusive.
	QueryTransactionsForClient(ctx context.Context, clientID string, start, end civil.Date) ([]*TransactionRow, error)

	// Close releases the underlying connection.
	Close() error
}

// BigQueryLedgerRepository is the concrete implementation of LedgerRepository
// that interacts with BigQuery. It holds a shared BigQuery client.
type BigQueryLedgerRepository struct {
	client *bigquery.Client
	ds     Dataset
}

// NewBigQueryLedgerRepository creates a new instance of BigQueryLedgerRepository
// with a shared BigQuery client.
func NewBigQueryLedgerRepository(ctx context.Context, ds Dataset) (*BigQueryLedgerRepository, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("NewBigQueryLedgerRepository: %w", err)
	}
	client, err := bigquery.NewClient(ctx, ds.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryLedgerRepository: creating client: %w", err)
	}
	return &BigQueryLedgerRepository{
		client: client,
		ds:     ds,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *BigQueryLedgerRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// ListAccountsForClient delegates to ListAccountsForClientWithClient with the shared client.
func (r *BigQueryLedgerRepository) ListAccountsForClient(ctx context.Context, clientID string) ([]*AccountRow, error) {
	return ListAccountsForClientWithClient(ctx, r.client, r.ds, clientID)
}

// QueryTransactionsForClient delegates to QueryTransactionsForClientWithClient with the shared client.
func (r *BigQueryLedgerRepository) QueryTransactionsForClient(ctx context.Context, clientID string, start, end civil.Date) ([]*TransactionRow, error) {
	return QueryTransactionsForClientWithClient(ctx, r.client, r.ds, clientID, start, end)
}
