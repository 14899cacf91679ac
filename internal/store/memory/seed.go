package memory

import (
	"github.com/shopspring/decimal"

	"shopfront/internal/models"
)

// Seed fills the store with the same starter catalog the MySQL bootstrap
// uses, so the server is browsable without a database.
func Seed(s *Store) {
	products := []models.Product{
		{ID: 1, Name: "Smartphone", Description: "A phone with a large screen and a decent camera", Price: decimal.RequireFromString("399.99"), Quantity: 25, Category: "Electronics", Rating: decimal.RequireFromString("4.4")},
		{ID: 2, Name: "Wireless Headphones", Description: "Over-ear headphones with noise cancelling", Price: decimal.RequireFromString("89.50"), Quantity: 40, Category: "Electronics", Rating: decimal.RequireFromString("4.1")},
		{ID: 3, Name: "Paperback Novel", Description: "A page-turner for long commutes", Price: decimal.RequireFromString("12.99"), Quantity: 120, Category: "Books", Rating: decimal.RequireFromString("4.7")},
		{ID: 4, Name: "Hooded Sweatshirt", Description: "Warm fleece hoodie", Price: decimal.RequireFromString("34.00"), Quantity: 60, Category: "Clothing", Rating: decimal.RequireFromString("4.0")},
		{ID: 5, Name: "Ceramic Mug", Description: "Holds 350ml of your favourite drink", Price: decimal.RequireFromString("8.25"), Quantity: 200, Category: "Home", Rating: decimal.RequireFromString("4.8")},
	}
	for _, p := range products {
		s.AddProduct(p)
	}
}
