package allowance

import (
	"fmt"

	"github.com/avekassy1/backend-take-home/internal/domain"
	"github.com/shopspring/decimal"
)

// State is the running position of one account category during a single
// calculation. It is created when the category's first transaction is seen and
// discarded when the calculation returns.
type State struct {
	// Balance is the sum of every amount processed so far. It never goes below zero.
	Balance decimal.Decimal
	// TotalContribution is the amount recognized against the overall ISA allowance.
	TotalContribution decimal.Decimal
	// SubAllowanceRemaining is the unused part of a nested cap (lifetime ISA only).
	SubAllowanceRemaining decimal.Decimal
}

// Calculator is the contribution rule for one account type.
type Calculator interface {
	// Contribute folds amount into the contribution totals. s.Balance is the
	// balance before amount is applied; Process updates it afterwards.
	Contribute(s State, amount decimal.Decimal) State
}

// calculatorFactory builds a calculator and its opening state from the year's limits.
type calculatorFactory func(limits Limits) (Calculator, State, error)

// calculatorFactories is the dispatch table from account type to contribution rule.
// Types missing from it are rejected with ErrUnsupportedCategory.
var calculatorFactories = map[domain.AccountType]calculatorFactory{
	domain.AccountTypeISA: func(Limits) (Calculator, State, error) {
		return standardCalculator{}, State{}, nil
	},
	domain.AccountTypeFlexibleISA: func(Limits) (Calculator, State, error) {
		return flexibleCalculator{}, State{}, nil
	},
	domain.AccountTypeFlexibleLifetimeISA: func(limits Limits) (Calculator, State, error) {
		subCap, ok := limits.Cap(domain.AccountTypeFlexibleLifetimeISA)
		if !ok {
			return nil, State{}, fmt.Errorf("%w: %s has no limit this tax year", ErrUnsupportedCategory, domain.AccountTypeFlexibleLifetimeISA)
		}
		return lifetimeCalculator{subCap: subCap}, State{SubAllowanceRemaining: subCap}, nil
	},
}

// NewCalculator returns the contribution rule for an account type together with
// its opening state.
func NewCalculator(t domain.AccountType, limits Limits) (Calculator, State, error) {
	factory, ok := calculatorFactories[t]
	if !ok {
		return nil, State{}, fmt.Errorf("%w: %s", ErrUnsupportedCategory, t)
	}
	return factory(limits)
}

// Process applies one transaction to a category's state. The negative-balance
// check runs first and is the same for every account type; on failure the
// state is returned unchanged.
func Process(c Calculator, s State, txn domain.Transaction) (State, error) {
	next := s.Balance.Add(txn.Amount)
	if next.IsNegative() {
		return s, &NegativeBalanceError{Balance: next}
	}

	s = c.Contribute(s, txn.Amount)
	s.Balance = next
	return s, nil
}

// standardCalculator: withdrawals are lost allowance, only pay-ins count.
type standardCalculator struct{}

func (standardCalculator) Contribute(s State, amount decimal.Decimal) State {
	if amount.IsPositive() {
		s.TotalContribution = s.TotalContribution.Add(amount)
	}
	return s
}

// flexibleCalculator: withdrawals give allowance back within the tax year.
type flexibleCalculator struct{}

func (flexibleCalculator) Contribute(s State, amount decimal.Decimal) State {
	s.TotalContribution = s.TotalContribution.Add(amount)
	return s
}

// lifetimeCalculator tracks a sub-allowance nested inside the overall allowance.
// Pay-ins beyond the sub-allowance stay invested but are not tax-advantaged, so
// they neither count towards the overall total nor restore anything when withdrawn.
type lifetimeCalculator struct {
	subCap decimal.Decimal
}

func (c lifetimeCalculator) Contribute(s State, amount decimal.Decimal) State {
	switch {
	case amount.IsPositive():
		counted := decimal.Min(amount, s.SubAllowanceRemaining)
		s.SubAllowanceRemaining = s.SubAllowanceRemaining.Sub(counted)
		s.TotalContribution = s.TotalContribution.Add(counted)

	case amount.IsNegative():
		// Withdrawals drain the non-advantaged excess first.
		excess := decimal.Max(decimal.Zero, s.Balance.Sub(c.subCap))
		consumed := c.subCap.Sub(s.SubAllowanceRemaining)
		restored := decimal.Min(amount.Abs().Sub(excess), consumed)
		if restored.IsPositive() {
			s.SubAllowanceRemaining = s.SubAllowanceRemaining.Add(restored)
			s.TotalContribution = s.TotalContribution.Sub(restored)
		}
	}
	return s
}
