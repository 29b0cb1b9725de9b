package allowance

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/avekassy1/backend-take-home/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Limits maps each account type to its annual cap for one tax year.
type Limits map[domain.AccountType]decimal.Decimal

// Cap returns the annual cap for an account type.
func (l Limits) Cap(t domain.AccountType) (decimal.Decimal, bool) {
	c, ok := l[t]
	return c, ok
}

// Types returns the account types with a limit: known types first in their
// canonical order, then any others alphabetically.
func (l Limits) Types() []domain.AccountType {
	out := make([]domain.AccountType, 0, len(l))
	seen := make(map[domain.AccountType]bool, len(l))
	for _, t := range domain.KnownAccountTypes {
		if _, ok := l[t]; ok {
			out = append(out, t)
			seen[t] = true
		}
	}
	var rest []domain.AccountType
	for t := range l {
		if !seen[t] {
			rest = append(rest, t)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

// LimitTable holds the annual ISA limits for every supported tax year.
// It is a closed table: years that are not listed are unsupported.
type LimitTable struct {
	years map[int]Limits
}

// DefaultLimitTable returns the built-in limits.
func DefaultLimitTable() *LimitTable {
	return &LimitTable{
		years: map[int]Limits{
			2024: {
				domain.AccountTypeISA:                 decimal.RequireFromString("20000.00"),
				domain.AccountTypeFlexibleISA:         decimal.RequireFromString("20000.00"),
				domain.AccountTypeFlexibleLifetimeISA: decimal.RequireFromString("4000.00"),
			},
		},
	}
}

// ForYear returns a copy of the limits for taxYear.
func (t *LimitTable) ForYear(taxYear int) (Limits, error) {
	limits, ok := t.years[taxYear]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedTaxYear, taxYear)
	}

	out := make(Limits, len(limits))
	for k, v := range limits {
		out[k] = v
	}
	return out, nil
}

// Years returns the supported tax years in ascending order.
func (t *LimitTable) Years() []int {
	years := make([]int, 0, len(t.years))
	for y := range t.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// limitsFile is the on-disk shape of a limit table:
//
//	tax_years:
//	  2025:
//	    ISA: 20000
//	    FLEXIBLE_ISA: 20000
//	    FLEXIBLE_LIFETIME_ISA: 4000
type limitsFile struct {
	TaxYears map[string]map[string]decimal.Decimal `yaml:"tax_years"`
}

// ParseLimitTable decodes a YAML (or JSON) limit table and merges it over the
// built-in one. Years in the document replace built-in years wholesale.
func ParseLimitTable(data []byte) (*LimitTable, error) {
	var doc limitsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ParseLimitTable: decode: %w", err)
	}

	table := DefaultLimitTable()
	for key, caps := range doc.TaxYears {
		year, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("ParseLimitTable: tax year %q: %w", key, err)
		}

		limits := make(Limits, len(caps))
		for name, c := range caps {
			if c.IsNegative() {
				return nil, fmt.Errorf("ParseLimitTable: tax year %d: negative limit %s for %s", year, c, name)
			}
			limits[domain.ParseAccountType(name)] = c
		}
		if _, ok := limits[domain.AccountTypeISA]; !ok {
			return nil, fmt.Errorf("ParseLimitTable: tax year %d: missing %s limit", year, domain.AccountTypeISA)
		}
		table.years[year] = limits
	}

	return table, nil
}

// LoadLimitTable reads a limit table file. An empty path yields the built-in table.
func LoadLimitTable(path string) (*LimitTable, error) {
	if path == "" {
		return DefaultLimitTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadLimitTable: read %q: %w", path, err)
	}
	return ParseLimitTable(data)
}
