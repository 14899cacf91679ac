package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopfront/internal/store"
)

// MinimumAddFunds is the smallest acceptable credit.
var MinimumAddFunds = decimal.RequireFromString("0.01")

type LedgerService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewLedgerService(store store.Store, logger zerolog.Logger) *LedgerService {
	return &LedgerService{store: store, logger: logger}
}

func (s *LedgerService) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	return s.store.GetBalance(ctx, username)
}

func (s *LedgerService) AddFunds(ctx context.Context, username string, funds decimal.Decimal) (decimal.Decimal, error) {
	if funds.LessThan(MinimumAddFunds) {
		return decimal.Zero, ErrInvalidFundsAmount
	}

	exists, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return decimal.Zero, err
	}
	if !exists {
		return decimal.Zero, store.ErrUserNotFound
	}

	balance, err := s.store.AddFunds(ctx, username, funds)
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info().
		Str("username", username).
		Str("funds", funds.String()).
		Str("balance", balance.String()).
		Msg("Funds credited")

	return balance, nil
}
