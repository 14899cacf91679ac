package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"shopfront/internal/models"
	"shopfront/internal/services"
	"shopfront/internal/store"
)

type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	logger          zerolog.Logger
}

func NewCheckoutHandler(st store.Store, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: services.NewCheckoutService(st, logger),
		logger:          logger,
	}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	req, err := parseCheckout(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if req.Username == "" {
		respondError(w, h.logger, r, services.ErrMissingFields)
		return
	}

	receipt, err := h.checkoutService.Checkout(r.Context(), req.Username, req.Cart, req.Total)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.CheckoutResponse{
		Balance:      receipt.Balance,
		Confirmation: receipt.Confirmation,
	})
}

func (h *CheckoutHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	username, err := parseUsername(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if username == "" {
		respondError(w, h.logger, r, services.ErrMissingFields)
		return
	}

	transactions, err := h.checkoutService.GetTransactions(r.Context(), username)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	respondJSON(w, http.StatusOK, transactions)
}
