package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID           int             `json:"id"`
	Username     string          `json:"user"`
	Confirmation string          `json:"confirmation_num"`
	Time         time.Time       `json:"time"`
	Products     []PurchasedItem `json:"products"`
	Total        decimal.Decimal `json:"total"`
}

// PurchasedItem is one unit bought in a transaction. Duplicate product ids
// within a transaction encode quantity. The embedded summary carries the
// price as it was at purchase time, so later catalog edits do not rewrite
// displayed history.
type PurchasedItem struct {
	ProductID int            `json:"product_id"`
	Product   ProductSummary `json:"product"`
}

type ProductSummary struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CheckoutRequest struct {
	Username string
	Cart     []int
	Total    decimal.Decimal
}

type CheckoutResponse struct {
	Balance      decimal.Decimal `json:"balance"`
	Confirmation string          `json:"confirmation_num"`
}

type AddFundsRequest struct {
	Username string
	Funds    decimal.Decimal
}
