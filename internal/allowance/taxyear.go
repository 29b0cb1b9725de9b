package allowance

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// DefaultTaxYear is the tax year used when a caller does not name one.
const DefaultTaxYear = 2024

// TaxYear is the UK tax-year window starting on 6 April of Year and ending on
// 5 April of the following year.
type TaxYear struct {
	Year  int
	Start civil.Date
	End   civil.Date
}

// NewTaxYear builds the window for the tax year that starts in the given calendar year.
func NewTaxYear(year int) TaxYear {
	return TaxYear{
		Year:  year,
		Start: civil.Date{Year: year, Month: time.April, Day: 6},
		End:   civil.Date{Year: year + 1, Month: time.April, Day: 5},
	}
}

// Contains reports whether d falls strictly inside the window.
// Transactions dated exactly on Start or End are outside it.
func (ty TaxYear) Contains(d civil.Date) bool {
	return ty.Start.Before(d) && d.Before(ty.End)
}

// Label formats the tax year the way HMRC writes it, e.g. "2024/25".
func (ty TaxYear) Label() string {
	return fmt.Sprintf("%d/%02d", ty.Year, (ty.Year+1)%100)
}

func (ty TaxYear) String() string {
	return ty.Label()
}
