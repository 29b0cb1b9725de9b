package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/avekassy1/backend-take-home/internal/domain"
	"github.com/avekassy1/backend-take-home/internal/validator"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidLedger is returned when a ledger document cannot be turned into transactions.
var ErrInvalidLedger = errors.New("invalid ledger")

// Scalar is a text field that also accepts bare JSON numbers, so amounts can be
// written as 5000 or "5000.00".
type Scalar string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	default:
		*s = Scalar(b)
	}
	return nil
}

// AccountRecord is an account as written in a ledger document.
type AccountRecord struct {
	ID       string `yaml:"id" json:"id" validate:"required,notblank"`
	ClientID string `yaml:"client_id" json:"client_id" validate:"required,notblank"`
	Type     string `yaml:"type" json:"type" validate:"required,notblank"`
}

// TransactionRecord is a transaction as written in a ledger document.
// It refers to its account by ID.
type TransactionRecord struct {
	AccountID string `yaml:"account_id" json:"account_id" validate:"required,notblank"`
	Date      Scalar `yaml:"date" json:"date" validate:"required,civildate"`
	Amount    Scalar `yaml:"amount" json:"amount" validate:"required,max=40,decimal"`
}

// Document is a self-contained ledger: the accounts and the transactions on them.
//
//	accounts:
//	  - id: acc-1
//	    client_id: client-1
//	    type: FLEXIBLE_ISA
//	transactions:
//	  - account_id: acc-1
//	    date: 2024-05-10
//	    amount: 5000
type Document struct {
	Accounts     []AccountRecord     `yaml:"accounts" json:"accounts"`
	Transactions []TransactionRecord `yaml:"transactions" json:"transactions"`
}

// ParseDocument decodes a YAML or JSON ledger document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidLedger, err)
	}
	return &doc, nil
}

// Resolve validates every record and joins transactions to their accounts.
// The returned transactions keep document order.
func (d *Document) Resolve() ([]domain.Transaction, error) {
	accounts := make(map[string]domain.Account, len(d.Accounts))
	for i, rec := range d.Accounts {
		if err := validator.Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: account %d: %v", ErrInvalidLedger, i, err)
		}
		id := strings.TrimSpace(rec.ID)
		if _, dup := accounts[id]; dup {
			return nil, fmt.Errorf("%w: account %d: duplicate account id %q", ErrInvalidLedger, i, id)
		}
		accounts[id] = domain.Account{
			ID:       id,
			ClientID: strings.TrimSpace(rec.ClientID),
			Type:     domain.ParseAccountType(rec.Type),
		}
	}

	txns := make([]domain.Transaction, 0, len(d.Transactions))
	for i, rec := range d.Transactions {
		if err := validator.Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", ErrInvalidLedger, i, err)
		}

		acc, ok := accounts[strings.TrimSpace(rec.AccountID)]
		if !ok {
			return nil, fmt.Errorf("%w: transaction %d: unknown account %q", ErrInvalidLedger, i, rec.AccountID)
		}
		// Both parses are guaranteed by the validate tags.
		date, _ := civil.ParseDate(strings.TrimSpace(string(rec.Date)))
		amount, _ := decimal.NewFromString(strings.TrimSpace(string(rec.Amount)))

		txns = append(txns, domain.Transaction{
			Account: acc,
			Date:    date,
			Amount:  amount,
		})
	}

	return txns, nil
}
