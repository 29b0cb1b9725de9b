package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// ListAccountsForClient retrieves all accounts owned by a client.
func ListAccountsForClient(ctx context.Context, ds Dataset, clientID string) ([]*AccountRow, error) {
	client, err := bigquery.NewClient(ctx, ds.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("ListAccountsForClient: creating client: %w", err)
	}
	defer client.Close()

	return ListAccountsForClientWithClient(ctx, client, ds, clientID)
}

// ListAccountsForClientWithClient retrieves all accounts owned by a client using the provided BigQuery client.
func ListAccountsForClientWithClient(ctx context.Context, client *bigquery.Client, ds Dataset, clientID string) ([]*AccountRow, error) {
	query := `
		SELECT
			account_id,
			client_id,
			account_type,
			opened_date,
			created_ts
		FROM ` + ds.Table("accounts") + `
		WHERE client_id = @client_id
		ORDER BY account_id
	`

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "client_id", Value: clientID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccountsForClientWithClient: reading query: %w", err)
	}

	var accounts []*AccountRow
	for {
		var row AccountRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAccountsForClientWithClient: iterating: %w", err)
		}
		accounts = append(accounts, &row)
	}

	return accounts, nil
}
