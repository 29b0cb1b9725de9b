package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
)

// QueryTransactionsForClient queries a client's transactions dated between start and end inclusive.
func QueryTransactionsForClient(ctx context.Context, ds Dataset, clientID string, start, end civil.Date) ([]*TransactionRow, error) {
	client, err := bigquery.NewClient(ctx, ds.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("QueryTransactionsForClient: bigquery client: %w", err)
	}
	defer client.Close()

	return QueryTransactionsForClientWithClient(ctx, client, ds, clientID, start, end)
}

// QueryTransactionsForClientWithClient queries a client's transactions dated between start
// and end inclusive using the provided BigQuery client. Rows come back in date order.
func QueryTransactionsForClientWithClient(ctx context.Context, client *bigquery.Client, ds Dataset, clientID string, start, end civil.Date) ([]*TransactionRow, error) {
	q := client.Query(`
		SELECT
			t.transaction_id,
			t.account_id,
			t.transaction_date,
			t.amount,
			t.external_reference,
			t.created_ts
		FROM ` + ds.Table("transactions") + ` t
		INNER JOIN ` + ds.Table("accounts") + ` a
		  ON t.account_id = a.account_id
		WHERE a.client_id = @client_id
		  AND t.transaction_date >= @start_date
		  AND t.transaction_date <= @end_date
		ORDER BY t.transaction_date, t.created_ts
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "client_id", Value: clientID},
		{Name: "start_date", Value: start},
		{Name: "end_date", Value: end},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryTransactionsForClient: query read: %w", err)
	}

	var rows []*TransactionRow
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryTransactionsForClient: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}
