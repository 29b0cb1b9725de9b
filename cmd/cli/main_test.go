package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/avekassy1/backend-take-home/internal/allowance"
	"github.com/shopspring/decimal"
)

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, "client-1", "", allowance.Result{
		TaxYear:            allowance.NewTaxYear(2024),
		AnnualAllowance:    decimal.NewFromInt(20000),
		RemainingAllowance: decimal.RequireFromString("8999.5"),
	})

	out := buf.String()
	for _, want := range []string{"CLIENT", "client-1", "all accounts", "2024/25", "20000.00", "8999.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResult_SingleAccount(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, "client-1", "acc-flex", allowance.Result{
		TaxYear:            allowance.NewTaxYear(2024),
		AnnualAllowance:    decimal.NewFromInt(20000),
		RemainingAllowance: decimal.NewFromInt(13000),
	})

	if !strings.Contains(buf.String(), "acc-flex") {
		t.Errorf("output missing account:\n%s", buf.String())
	}
}

func TestRenderLimits(t *testing.T) {
	var buf bytes.Buffer
	if err := renderLimits(&buf, allowance.DefaultLimitTable(), 0); err != nil {
		t.Fatalf("renderLimits() error = %v", err)
	}

	out := buf.String()
	isa := strings.Index(out, "| ISA ")
	lifetime := strings.Index(out, "FLEXIBLE_LIFETIME_ISA")
	if isa < 0 || lifetime < 0 || isa > lifetime {
		t.Errorf("expected ISA before FLEXIBLE_LIFETIME_ISA:\n%s", out)
	}
	if !strings.Contains(out, "4000.00") || !strings.Contains(out, "2024/25") {
		t.Errorf("output missing limits:\n%s", out)
	}
}

func TestRenderLimits_UnsupportedYear(t *testing.T) {
	var buf bytes.Buffer
	if err := renderLimits(&buf, allowance.DefaultLimitTable(), 2019); err == nil {
		t.Error("renderLimits() for 2019 should fail")
	}
}
