package validator

import (
	"fmt"
	"math/big"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validate is the shared validator instance with the ledger's custom tags registered.
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Calendar date in YYYY-MM-DD form.
	_ = Validate.RegisterValidation("civildate", func(fl validator.FieldLevel) bool {
		_, err := civil.ParseDate(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})

	// Decimal monetary amount such as "-2000" or "5500.25", within CheckAmount's bounds.
	_ = Validate.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && CheckAmount(d) == nil
	})

	// Not empty and not only whitespace.
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// Amount bounds. The scale matches BigQuery NUMERIC.
const (
	MaxAmountScale         = 9
	MaxAmountIntegerDigits = 15
)

// CheckAmount rejects amounts with more than MaxAmountScale decimal places or
// more than MaxAmountIntegerDigits integer digits. It looks only at the
// coefficient and exponent, so "1e2000000000" is rejected without being expanded.
func CheckAmount(d decimal.Decimal) error {
	if d.Exponent() < -MaxAmountScale {
		return fmt.Errorf("amount %s has more than %d decimal places", d.String(), MaxAmountScale)
	}

	coeff := new(big.Int).Abs(d.Coefficient())
	// 2^64 already has 20 digits.
	if coeff.BitLen() > 128 {
		return fmt.Errorf("amount has more than %d integer digits", MaxAmountIntegerDigits)
	}
	intDigits := len(coeff.String()) + int(d.Exponent())
	if coeff.Sign() != 0 && intDigits > MaxAmountIntegerDigits {
		return fmt.Errorf("amount has more than %d integer digits", MaxAmountIntegerDigits)
	}
	return nil
}

// Struct validates v and flattens any field errors into one readable error.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msgs = append(msgs, fieldErrorToString(e))
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", e.Field())
	case "civildate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format, got %q", e.Field(), e.Value())
	case "decimal":
		return fmt.Sprintf("%s must be a decimal amount with at most %d decimal places and %d integer digits, got %q",
			e.Field(), MaxAmountScale, MaxAmountIntegerDigits, e.Value())
	case "max":
		return fmt.Sprintf("%s is too long", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
