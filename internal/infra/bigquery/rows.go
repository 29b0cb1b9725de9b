package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// AccountRow is a row of the accounts table.
type AccountRow struct {
	AccountID string `bigquery:"account_id"` // REQUIRED
	ClientID  string `bigquery:"client_id"`  // REQUIRED

	// AccountType holds the account category name, e.g. FLEXIBLE_ISA.
	AccountType string `bigquery:"account_type"` // REQUIRED

	OpenedDate bigquery.NullDate      `bigquery:"opened_date"` // DATE, NULLABLE
	CreatedTS  bigquery.NullTimestamp `bigquery:"created_ts"`  // TIMESTAMP, NULLABLE (default CURRENT_TIMESTAMP())
}

// TransactionRow is a row of the transactions table.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED
	AccountID     string `bigquery:"account_id"`     // REQUIRED

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED
	Amount          *big.Rat   `bigquery:"amount"`           // REQUIRED NUMERIC, signed

	ExternalReference bigquery.NullString `bigquery:"external_reference"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
}
