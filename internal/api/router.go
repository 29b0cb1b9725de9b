package api

import (
	"net/http"

	"github.com/avekassy1/backend-take-home/internal/allowance"
	"github.com/avekassy1/backend-take-home/internal/api/handlers"
	"github.com/avekassy1/backend-take-home/internal/api/middleware"
	"github.com/avekassy1/backend-take-home/internal/ledger"
	"github.com/rs/zerolog"
)

// NewRouter wires the allowance API routes and middleware. source may be nil.
func NewRouter(engine *allowance.Engine, source ledger.Source, log zerolog.Logger) http.Handler {
	allowanceHandler := handlers.NewAllowanceHandler(engine, source, log)
	limitsHandler := handlers.NewLimitsHandler(engine)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/allowance", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			allowanceHandler.Get(w, r)
		case http.MethodPost:
			allowanceHandler.Calculate(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/limits", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			limitsHandler.GetLimits(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", handlers.Health)

	return middleware.Chain(mux, log, middleware.DefaultCORS)
}
