package ledger

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/avekassy1/backend-take-home/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_YAML(t *testing.T) {
	data, err := os.ReadFile("testdata/ledger.yaml")
	require.NoError(t, err)

	doc, err := ParseDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 3)
	require.Len(t, doc.Transactions, 4)

	txns, err := doc.Resolve()
	require.NoError(t, err)
	require.Len(t, txns, 4)

	assert.Equal(t, domain.Account{ID: "acc-flex", ClientID: "client-1", Type: domain.AccountTypeFlexibleISA}, txns[0].Account)
	assert.Equal(t, civil.Date{Year: 2024, Month: 5, Day: 10}, txns[0].Date)
	assert.Equal(t, "5000.00", txns[0].Amount.StringFixed(2))

	assert.Equal(t, "-2000.50", txns[1].Amount.StringFixed(2))
	assert.True(t, txns[1].IsWithdrawal())

	assert.Equal(t, domain.AccountTypeFlexibleLifetimeISA, txns[2].Account.Type)
	assert.Equal(t, "client-2", txns[3].Account.ClientID)
}

func TestParseDocument_JSON(t *testing.T) {
	data, err := os.ReadFile("testdata/ledger.json")
	require.NoError(t, err)

	doc, err := ParseDocument(data)
	require.NoError(t, err)

	txns, err := doc.Resolve()
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "5000.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "2500.75", txns[1].Amount.StringFixed(2))
}

func TestParseDocument_Malformed(t *testing.T) {
	_, err := ParseDocument([]byte("accounts: [\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLedger))
}

func TestDocument_JSONBody(t *testing.T) {
	body := `{
		"accounts": [{"id": "a", "client_id": "c", "type": "ISA"}],
		"transactions": [
			{"account_id": "a", "date": "2024-05-10", "amount": 1200.5},
			{"account_id": "a", "date": "2024-05-11", "amount": "-200"}
		]
	}`
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))

	txns, err := doc.Resolve()
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "1200.50", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "-200.00", txns[1].Amount.StringFixed(2))
}

func TestResolve_Errors(t *testing.T) {
	acc := AccountRecord{ID: "acc-1", ClientID: "client-1", Type: "ISA"}
	txn := TransactionRecord{AccountID: "acc-1", Date: "2024-05-10", Amount: "100"}

	tests := []struct {
		name    string
		doc     Document
		wantErr string
	}{
		{
			name:    "duplicate account",
			doc:     Document{Accounts: []AccountRecord{acc, acc}},
			wantErr: "duplicate account id",
		},
		{
			name:    "account missing client",
			doc:     Document{Accounts: []AccountRecord{{ID: "acc-1", Type: "ISA"}}},
			wantErr: "ClientID is required",
		},
		{
			name: "unknown account",
			doc: Document{
				Accounts:     []AccountRecord{acc},
				Transactions: []TransactionRecord{{AccountID: "acc-2", Date: "2024-05-10", Amount: "1"}},
			},
			wantErr: "unknown account",
		},
		{
			name: "bad date",
			doc: Document{
				Accounts:     []AccountRecord{acc},
				Transactions: []TransactionRecord{txn, {AccountID: "acc-1", Date: "2024-13-01", Amount: "1"}},
			},
			wantErr: "transaction 1",
		},
		{
			name: "bad amount",
			doc: Document{
				Accounts:     []AccountRecord{acc},
				Transactions: []TransactionRecord{{AccountID: "acc-1", Date: "2024-05-10", Amount: "ten"}},
			},
			wantErr: "Amount must be a decimal",
		},
		{
			name: "amount with unbounded exponent",
			doc: Document{
				Accounts: []AccountRecord{acc},
				Transactions: []TransactionRecord{
					{AccountID: "acc-1", Date: "2024-05-10", Amount: "1e2000000000"},
					{AccountID: "acc-1", Date: "2024-05-11", Amount: "0.01"},
				},
			},
			wantErr: "transaction 0: invalid input: Amount must be a decimal",
		},
		{
			name: "overlong amount",
			doc: Document{
				Accounts:     []AccountRecord{acc},
				Transactions: []TransactionRecord{{AccountID: "acc-1", Date: "2024-05-10", Amount: Scalar(strings.Repeat("9", 50))}},
			},
			wantErr: "Amount is too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Resolve()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidLedger)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolve_UnknownTypeIsKept(t *testing.T) {
	doc := Document{
		Accounts:     []AccountRecord{{ID: "a", ClientID: "c", Type: "junior_isa"}},
		Transactions: []TransactionRecord{{AccountID: "a", Date: "2024-05-10", Amount: "1"}},
	}
	txns, err := doc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, domain.AccountType("JUNIOR_ISA"), txns[0].Account.Type)
}
