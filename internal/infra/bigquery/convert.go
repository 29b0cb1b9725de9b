package bigquery

import (
	"fmt"

	"github.com/avekassy1/backend-take-home/internal/domain"
	"github.com/shopspring/decimal"
)

// numericScale is the number of fractional digits in a BigQuery NUMERIC.
const numericScale = 9

// ToDomain converts the row to a domain account.
func (r *AccountRow) ToDomain() domain.Account {
	return domain.Account{
		ID:       r.AccountID,
		ClientID: r.ClientID,
		Type:     domain.ParseAccountType(r.AccountType),
	}
}

// BuildTransactions joins transaction rows to their accounts and converts both to domain values.
// A transaction whose account is not among accounts is an error.
func BuildTransactions(accounts []*AccountRow, rows []*TransactionRow) ([]domain.Transaction, error) {
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a.ToDomain()
	}

	txns := make([]domain.Transaction, 0, len(rows))
	for _, r := range rows {
		acc, ok := byID[r.AccountID]
		if !ok {
			return nil, fmt.Errorf("BuildTransactions: transaction %s: unknown account %q", r.TransactionID, r.AccountID)
		}
		if r.Amount == nil {
			return nil, fmt.Errorf("BuildTransactions: transaction %s: amount is null", r.TransactionID)
		}

		amount, err := decimal.NewFromString(r.Amount.FloatString(numericScale))
		if err != nil {
			return nil, fmt.Errorf("BuildTransactions: transaction %s: amount: %w", r.TransactionID, err)
		}

		txns = append(txns, domain.Transaction{
			Account: acc,
			Date:    r.TransactionDate,
			Amount:  amount,
		})
	}

	return txns, nil
}
