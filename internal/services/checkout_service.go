package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopfront/internal/models"
	"shopfront/internal/store"
)

type CheckoutService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewCheckoutService(store store.Store, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{store: store, logger: logger}
}

// Checkout validates the request and hands the whole purchase to the store,
// which executes it atomically. The claimed total is checked against catalog
// prices inside that unit of work; the recomputed value is what gets debited.
func (s *CheckoutService) Checkout(ctx context.Context, username string, cart []int, claimedTotal decimal.Decimal) (*store.Receipt, error) {
	if username == "" {
		return nil, ErrMissingFields
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	receipt, err := s.store.Checkout(ctx, username, cart, claimedTotal)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("username", username).
		Str("confirmation", receipt.Confirmation).
		Str("total", receipt.Total.String()).
		Msg("Purchase recorded")

	return receipt, nil
}

func (s *CheckoutService) GetTransactions(ctx context.Context, username string) ([]models.Transaction, error) {
	if username == "" {
		return nil, ErrMissingFields
	}

	exists, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrUserNotFound
	}

	transactions, err := s.store.GetTransactions(ctx, username)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}
