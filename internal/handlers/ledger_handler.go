package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"shopfront/internal/services"
	"shopfront/internal/store"
)

type LedgerHandler struct {
	ledgerService *services.LedgerService
	logger        zerolog.Logger
}

func NewLedgerHandler(st store.Store, logger zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: services.NewLedgerService(st, logger),
		logger:        logger,
	}
}

// AddFunds credits the account and responds with the new balance as plain
// text, which is what the storefront client expects.
func (h *LedgerHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	req, err := parseAddFunds(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if req.Username == "" {
		respondError(w, h.logger, r, services.ErrMissingFields)
		return
	}

	balance, err := h.ledgerService.AddFunds(r.Context(), req.Username, req.Funds)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	respondText(w, http.StatusOK, balance.StringFixed(2))
}
