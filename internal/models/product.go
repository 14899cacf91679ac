package models

import "github.com/shopspring/decimal"

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      decimal.Decimal `json:"rating"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
