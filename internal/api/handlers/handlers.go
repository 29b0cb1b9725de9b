package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avekassy1/backend-take-home/internal/allowance"
	"github.com/avekassy1/backend-take-home/internal/api/middleware"
	"github.com/avekassy1/backend-take-home/internal/domain"
	"github.com/avekassy1/backend-take-home/internal/ledger"
	"github.com/avekassy1/backend-take-home/internal/logger"
	"github.com/avekassy1/backend-take-home/internal/validator"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds inline ledger uploads.
const maxBodyBytes = 4 << 20

// AllowanceResponse is the JSON form of an allowance calculation.
type AllowanceResponse struct {
	ClientID           string `json:"client_id"`
	AccountID          string `json:"account_id,omitempty"`
	TaxYear            int    `json:"tax_year"`
	TaxYearLabel       string `json:"tax_year_label"`
	AnnualAllowance    string `json:"annual_allowance"`
	RemainingAllowance string `json:"remaining_allowance"`
}

// AllowanceRequest is the body of POST /api/allowance: the client to calculate
// for and an inline ledger.
type AllowanceRequest struct {
	ClientID  string `json:"client_id" validate:"required,notblank"`
	AccountID string `json:"account_id"`
	TaxYear   *int   `json:"tax_year"`

	ledger.Document
}

// AllowanceHandler handles allowance calculation endpoints.
type AllowanceHandler struct {
	engine *allowance.Engine
	source ledger.Source
	log    zerolog.Logger
}

// NewAllowanceHandler creates a new allowance handler. source may be nil, in
// which case only inline ledgers are accepted.
func NewAllowanceHandler(engine *allowance.Engine, source ledger.Source, log zerolog.Logger) *AllowanceHandler {
	return &AllowanceHandler{
		engine: engine,
		source: source,
		log:    log,
	}
}

// Calculate handles POST /api/allowance
func (h *AllowanceHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req AllowanceRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validator.Struct(req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := req.Resolve()
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	taxYear := h.engine.DefaultTaxYear()
	if req.TaxYear != nil {
		taxYear = *req.TaxYear
	}

	h.respond(w, r, strings.TrimSpace(req.ClientID), strings.TrimSpace(req.AccountID), taxYear, txns)
}

// Get handles GET /api/allowance?client_id=...&account_id=...&tax_year=...
// against the configured ledger source.
func (h *AllowanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "No ledger source configured; POST an inline ledger instead")
		return
	}

	query := r.URL.Query()
	clientID := strings.TrimSpace(query.Get("client_id"))
	if clientID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "client_id is required")
		return
	}
	taxYear, ok := parseTaxYear(w, query.Get("tax_year"), h.engine.DefaultTaxYear())
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	ctx = logger.WithContext(ctx, h.log)

	txns, err := h.source.LoadTransactions(ctx, clientID, allowance.NewTaxYear(taxYear))
	if err != nil {
		log := logger.WithFields(h.log, map[string]interface{}{
			"request_id": middleware.RequestIDFromContext(r.Context()),
			"client_id":  clientID,
			"tax_year":   taxYear,
		})
		log.Error().Err(err).Msg("Failed to load ledger")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load ledger")
		return
	}

	h.respond(w, r, clientID, strings.TrimSpace(query.Get("account_id")), taxYear, txns)
}

func (h *AllowanceHandler) respond(w http.ResponseWriter, r *http.Request, clientID, accountID string, taxYear int, txns []domain.Transaction) {
	var (
		res allowance.Result
		err error
	)
	if accountID != "" {
		res, err = h.engine.CalculateForAccount(accountID, ownedBy(clientID, txns), taxYear)
	} else {
		res, err = h.engine.Calculate(clientID, txns, taxYear)
	}
	if err != nil {
		h.writeCalculationError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, AllowanceResponse{
		ClientID:           clientID,
		AccountID:          accountID,
		TaxYear:            res.TaxYear.Year,
		TaxYearLabel:       res.TaxYear.Label(),
		AnnualAllowance:    res.AnnualAllowance.StringFixed(2),
		RemainingAllowance: res.RemainingAllowance.StringFixed(2),
	})
}

func (h *AllowanceHandler) writeCalculationError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Warn().
		Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("Allowance calculation rejected")

	var negErr *allowance.NegativeBalanceError
	switch {
	case errors.As(err, &negErr):
		middleware.WriteErrorFields(w, http.StatusUnprocessableEntity, negErr.Error(), map[string]string{
			"attempted_balance": negErr.Balance.StringFixed(2),
		})
	case errors.Is(err, allowance.ErrUnsupportedTaxYear), errors.Is(err, allowance.ErrUnsupportedCategory):
		middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to calculate allowance")
	}
}

// ownedBy keeps the transactions on accounts owned by clientID.
func ownedBy(clientID string, txns []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Account.ClientID == clientID {
			out = append(out, t)
		}
	}
	return out
}

// LimitsResponse is the JSON form of one tax year's limits.
type LimitsResponse struct {
	TaxYear      int               `json:"tax_year"`
	TaxYearLabel string            `json:"tax_year_label"`
	Limits       map[string]string `json:"limits"`
	Supported    []int             `json:"supported_tax_years"`
}

// LimitsHandler handles limit table endpoints.
type LimitsHandler struct {
	engine *allowance.Engine
}

// NewLimitsHandler creates a new limits handler.
func NewLimitsHandler(engine *allowance.Engine) *LimitsHandler {
	return &LimitsHandler{engine: engine}
}

// GetLimits handles GET /api/limits?tax_year=...
func (h *LimitsHandler) GetLimits(w http.ResponseWriter, r *http.Request) {
	taxYear, ok := parseTaxYear(w, r.URL.Query().Get("tax_year"), h.engine.DefaultTaxYear())
	if !ok {
		return
	}

	table := h.engine.Limits()
	limits, err := table.ForYear(taxYear)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	out := make(map[string]string, len(limits))
	for t, c := range limits {
		out[t.String()] = c.StringFixed(2)
	}

	ty := allowance.NewTaxYear(taxYear)
	middleware.WriteJSON(w, http.StatusOK, LimitsResponse{
		TaxYear:      ty.Year,
		TaxYearLabel: ty.Label(),
		Limits:       out,
		Supported:    table.Years(),
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func parseTaxYear(w http.ResponseWriter, raw string, fallback int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "tax_year must be a year such as 2024")
		return 0, false
	}
	return year, true
}
