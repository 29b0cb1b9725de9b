package allowance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnsupportedTaxYear is returned when the limit table has no entry for the requested year.
	ErrUnsupportedTaxYear = errors.New("ISA limits not defined for tax year")

	// ErrUnsupportedCategory is returned when a transaction belongs to an account type
	// with no contribution rule.
	ErrUnsupportedCategory = errors.New("no calculator implemented for account type")
)

// NegativeBalanceError is returned when a transaction would take an account
// category's running balance below zero. Balance is the balance the transaction
// would have produced.
type NegativeBalanceError struct {
	Balance decimal.Decimal
}

func (e *NegativeBalanceError) Error() string {
	return fmt.Sprintf("account balance cannot go negative: balance is %s", e.Balance.StringFixed(2))
}
