package allowance

import (
	"sort"

	"github.com/avekassy1/backend-take-home/internal/domain"
)

// FilterForClient returns the transactions on accounts owned by clientID that
// fall inside the tax year, ordered by date. Same-day transactions keep their
// input order. The input slice is left untouched.
func FilterForClient(clientID string, txns []domain.Transaction, ty TaxYear) []domain.Transaction {
	return filterSorted(txns, ty, func(t domain.Transaction) bool {
		return t.Account.ClientID == clientID
	})
}

// FilterForAccount is FilterForClient scoped to a single account.
func FilterForAccount(accountID string, txns []domain.Transaction, ty TaxYear) []domain.Transaction {
	return filterSorted(txns, ty, func(t domain.Transaction) bool {
		return t.Account.ID == accountID
	})
}

func filterSorted(txns []domain.Transaction, ty TaxYear, match func(domain.Transaction) bool) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if match(t) && ty.Contains(t.Date) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
