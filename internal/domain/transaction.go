package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Transaction is one dated movement of money on an ISA account.
// Positive amounts are contributions, negative amounts are withdrawals.
// Transactions are facts: nothing downstream of the ledger loader modifies them.
type Transaction struct {
	Account Account         // owning account, carried by value
	Date    civil.Date      // calendar date the money moved
	Amount  decimal.Decimal // signed, IN = positive, OUT = negative
}

// IsContribution reports whether the transaction pays money into the account.
func (t Transaction) IsContribution() bool {
	return t.Amount.IsPositive()
}

// IsWithdrawal reports whether the transaction takes money out of the account.
func (t Transaction) IsWithdrawal() bool {
	return t.Amount.IsNegative()
}
