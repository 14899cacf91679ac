// Package store defines the storage seam the services operate against.
// Two implementations exist: mysql (production) and memory (tests and
// running without a configured database).
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"shopfront/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOutOfStock        = errors.New("not enough stock")
	ErrStaleTotal        = errors.New("cart total does not match current prices")
)

// Receipt is the durable outcome of a successful checkout.
type Receipt struct {
	Confirmation string
	Total        decimal.Decimal
	Balance      decimal.Decimal
}

type Store interface {
	// Users.
	CreateUser(ctx context.Context, name, username, passwordHash, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// Catalog.
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	ProductExists(ctx context.Context, id int) (bool, error)
	SearchProducts(ctx context.Context, phrase string) ([]int, error)
	ListCategories(ctx context.Context) ([]string, error)

	// Ledger.
	GetBalance(ctx context.Context, username string) (decimal.Decimal, error)
	AddFunds(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error)

	// Checkout runs the whole purchase as one atomic unit: the transaction
	// row, one purchased-product row per cart entry (with a price snapshot),
	// the stock decrements and the balance debit commit together or not at
	// all. claimedTotal is validated against the prices read under lock.
	Checkout(ctx context.Context, username string, cart []int, claimedTotal decimal.Decimal) (*Receipt, error)

	// GetTransactions returns the user's transactions newest-first, each
	// with its items and a total summed from the stored price snapshots.
	GetTransactions(ctx context.Context, username string) ([]models.Transaction, error)
}
