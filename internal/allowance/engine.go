// Package allowance calculates how much of a client's annual ISA allowance is
// left in a tax year, given the ledger of deposits and withdrawals across the
// client's ISA accounts.
package allowance

import (
	"fmt"

	"github.com/avekassy1/backend-take-home/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Result is the outcome of an allowance calculation.
type Result struct {
	TaxYear            TaxYear
	AnnualAllowance    decimal.Decimal
	RemainingAllowance decimal.Decimal
}

// Engine calculates remaining ISA allowance from a ledger of transactions.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	limits      *LimitTable
	log         zerolog.Logger
	defaultYear int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug tracing of calculations.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithDefaultTaxYear sets the year used by CalculateDefault.
func WithDefaultTaxYear(year int) Option {
	return func(e *Engine) {
		e.defaultYear = year
	}
}

// NewEngine creates an engine over the given limit table. A nil table means the built-in one.
func NewEngine(limits *LimitTable, opts ...Option) *Engine {
	if limits == nil {
		limits = DefaultLimitTable()
	}
	e := &Engine{
		limits:      limits,
		log:         zerolog.Nop(),
		defaultYear: DefaultTaxYear,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limits returns the limit table the engine calculates against.
func (e *Engine) Limits() *LimitTable {
	return e.limits
}

// DefaultTaxYear returns the year CalculateDefault uses.
func (e *Engine) DefaultTaxYear() int {
	return e.defaultYear
}

// Calculate returns the client's ISA allowance for taxYear across all of the
// client's accounts. Any error aborts the whole calculation; no partial result
// is returned.
func (e *Engine) Calculate(clientID string, txns []domain.Transaction, taxYear int) (Result, error) {
	ty := NewTaxYear(taxYear)
	log := e.log.With().Str("client_id", clientID).Str("tax_year", ty.Label()).Logger()

	return e.run(log, ty, func() []domain.Transaction {
		return FilterForClient(clientID, txns, ty)
	})
}

// CalculateForAccount is Calculate restricted to the transactions of one account.
func (e *Engine) CalculateForAccount(accountID string, txns []domain.Transaction, taxYear int) (Result, error) {
	ty := NewTaxYear(taxYear)
	log := e.log.With().Str("account_id", accountID).Str("tax_year", ty.Label()).Logger()

	return e.run(log, ty, func() []domain.Transaction {
		return FilterForAccount(accountID, txns, ty)
	})
}

// CalculateDefault is Calculate for the engine's default tax year.
func (e *Engine) CalculateDefault(clientID string, txns []domain.Transaction) (Result, error) {
	return e.Calculate(clientID, txns, e.defaultYear)
}

// categoryRun pairs a calculator with the state it owns for one calculation.
type categoryRun struct {
	calc  Calculator
	state State
}

func (e *Engine) run(log zerolog.Logger, ty TaxYear, selectTxns func() []domain.Transaction) (Result, error) {
	limits, err := e.limits.ForYear(ty.Year)
	if err != nil {
		return Result{}, err
	}
	annual, ok := limits.Cap(domain.AccountTypeISA)
	if !ok {
		return Result{}, fmt.Errorf("%w: %d has no %s limit", ErrUnsupportedTaxYear, ty.Year, domain.AccountTypeISA)
	}

	ordered := selectTxns()
	log.Debug().Int("transactions", len(ordered)).Msg("Calculating ISA allowance")

	runs := make(map[domain.AccountType]*categoryRun)
	for _, txn := range ordered {
		accountType := txn.Account.Type

		r, ok := runs[accountType]
		if !ok {
			calc, opening, err := NewCalculator(accountType, limits)
			if err != nil {
				log.Debug().Err(err).Str("account_id", txn.Account.ID).Msg("Unsupported account type")
				return Result{}, err
			}
			r = &categoryRun{calc: calc, state: opening}
			runs[accountType] = r
		}

		next, err := Process(r.calc, r.state, txn)
		if err != nil {
			log.Debug().
				Err(err).
				Str("account_id", txn.Account.ID).
				Str("date", txn.Date.String()).
				Str("amount", txn.Amount.String()).
				Msg("Transaction rejected")
			return Result{}, err
		}
		r.state = next
	}

	total := decimal.Zero
	for accountType, r := range runs {
		log.Debug().
			Str("account_type", accountType.String()).
			Str("balance", r.state.Balance.String()).
			Str("contribution", r.state.TotalContribution.String()).
			Msg("Category totals")
		total = total.Add(r.state.TotalContribution)
	}

	remaining := decimal.Max(decimal.Zero, annual.Sub(total))
	log.Debug().
		Str("annual_allowance", annual.String()).
		Str("remaining_allowance", remaining.String()).
		Msg("ISA allowance calculated")

	return Result{
		TaxYear:            ty,
		AnnualAllowance:    annual,
		RemainingAllowance: remaining,
	}, nil
}
