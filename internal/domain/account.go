package domain

import "strings"

// AccountType identifies the ISA product an account belongs to. The set is open:
// ledgers may carry types the allowance engine has no rule for, and the engine
// rejects those rather than guessing.
type AccountType string

const (
	// AccountTypeISA is a standard (non-flexible) ISA. Withdrawals never give allowance back.
	AccountTypeISA AccountType = "ISA"
	// AccountTypeFlexibleISA is a flexible ISA. Withdrawals restore allowance in the same tax year.
	AccountTypeFlexibleISA AccountType = "FLEXIBLE_ISA"
	// AccountTypeFlexibleLifetimeISA is a lifetime ISA with its own sub-allowance
	// nested inside the overall ISA allowance.
	AccountTypeFlexibleLifetimeISA AccountType = "FLEXIBLE_LIFETIME_ISA"
)

// KnownAccountTypes lists the account types that ship with a contribution rule.
var KnownAccountTypes = []AccountType{
	AccountTypeISA,
	AccountTypeFlexibleISA,
	AccountTypeFlexibleLifetimeISA,
}

// ParseAccountType normalizes a stored or user-supplied type name.
// Unknown names are kept as-is so the engine can report them.
func ParseAccountType(s string) AccountType {
	return AccountType(strings.ToUpper(strings.TrimSpace(s)))
}

func (t AccountType) String() string {
	return string(t)
}

// Account is an ISA account owned by a client. Accounts are immutable once created.
type Account struct {
	ID       string
	ClientID string
	Type     AccountType
}
