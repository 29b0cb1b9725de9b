package allowance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avekassy1/backend-take-home/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLimitTable(t *testing.T) {
	limits, err := DefaultLimitTable().ForYear(2024)
	require.NoError(t, err)

	want := map[domain.AccountType]string{
		domain.AccountTypeISA:                 "20000",
		domain.AccountTypeFlexibleISA:         "20000",
		domain.AccountTypeFlexibleLifetimeISA: "4000",
	}
	for accountType, cap := range want {
		got, ok := limits.Cap(accountType)
		require.True(t, ok, "missing limit for %s", accountType)
		assert.True(t, decimal.RequireFromString(cap).Equal(got), "%s: want %s, got %s", accountType, cap, got)
	}
}

func TestLimitTable_ForYear_Unsupported(t *testing.T) {
	for _, year := range []int{2020, 2023, 2025} {
		_, err := DefaultLimitTable().ForYear(year)
		assert.ErrorIs(t, err, ErrUnsupportedTaxYear, "year %d", year)
	}
}

func TestLimitTable_ForYear_ReturnsCopy(t *testing.T) {
	table := DefaultLimitTable()
	limits, err := table.ForYear(2024)
	require.NoError(t, err)

	limits[domain.AccountTypeISA] = decimal.Zero

	again, err := table.ForYear(2024)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20000).Equal(again[domain.AccountTypeISA]))
}

func TestParseLimitTable(t *testing.T) {
	table, err := ParseLimitTable([]byte(`
tax_years:
  2025:
    isa: "20000.00"
    flexible_isa: 20000
    FLEXIBLE_LIFETIME_ISA: 4000
`))
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, table.Years())

	limits, err := table.ForYear(2025)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20000).Equal(limits[domain.AccountTypeISA]))
	assert.True(t, decimal.NewFromInt(20000).Equal(limits[domain.AccountTypeFlexibleISA]))
	assert.True(t, decimal.NewFromInt(4000).Equal(limits[domain.AccountTypeFlexibleLifetimeISA]))
}

func TestParseLimitTable_JSON(t *testing.T) {
	table, err := ParseLimitTable([]byte(`{"tax_years": {"2026": {"ISA": "21000.50"}}}`))
	require.NoError(t, err)

	limits, err := table.ForYear(2026)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("21000.50").Equal(limits[domain.AccountTypeISA]))
}

func TestParseLimitTable_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing ISA limit", "tax_years:\n  2025:\n    FLEXIBLE_ISA: 20000\n"},
		{"negative limit", "tax_years:\n  2025:\n    ISA: -1\n"},
		{"not a number", "tax_years:\n  2025:\n    ISA: lots\n"},
		{"malformed yaml", "tax_years: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLimitTable([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadLimitTable(t *testing.T) {
	t.Run("empty path is the built-in table", func(t *testing.T) {
		table, err := LoadLimitTable("")
		require.NoError(t, err)
		assert.Equal(t, []int{2024}, table.Years())
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "limits.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tax_years:\n  2025:\n    ISA: 20000\n"), 0o600))

		table, err := LoadLimitTable(path)
		require.NoError(t, err)
		assert.Equal(t, []int{2024, 2025}, table.Years())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLimitTable(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestLimits_Types(t *testing.T) {
	limits := Limits{
		"STOCKS_AND_SHARES_ISA":               decimal.NewFromInt(1),
		domain.AccountTypeFlexibleLifetimeISA: decimal.NewFromInt(4000),
		"CASH_ISA":                            decimal.NewFromInt(1),
		domain.AccountTypeISA:                 decimal.NewFromInt(20000),
	}

	assert.Equal(t, []domain.AccountType{
		domain.AccountTypeISA,
		domain.AccountTypeFlexibleLifetimeISA,
		"CASH_ISA",
		"STOCKS_AND_SHARES_ISA",
	}, limits.Types())
}
