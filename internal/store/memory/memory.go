// Package memory is an in-process Store used by the test suites and when
// the server runs without a configured database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopfront/internal/models"
	"shopfront/internal/store"
)

type purchase struct {
	productID int
	price     decimal.Decimal
}

type transaction struct {
	id           int
	username     string
	confirmation string
	createdAt    time.Time
	items        []purchase
}

type Store struct {
	mu sync.Mutex

	users        map[string]*models.User
	products     map[int]*models.Product
	categories   []string
	transactions []transaction

	nextUserID        int
	nextTransactionID int
}

func New() *Store {
	return &Store{
		users:             make(map[string]*models.User),
		products:          make(map[int]*models.Product),
		nextUserID:        1,
		nextTransactionID: 1,
	}
}

// AddProduct seeds the catalog. Categories are collected from the products.
func (s *Store) AddProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := p
	s.products[p.ID] = &cp

	for _, name := range s.categories {
		if name == p.Category {
			return
		}
	}
	s.categories = append(s.categories, p.Category)
}

func (s *Store) CreateUser(_ context.Context, name, username, passwordHash, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return nil, store.ErrDuplicateUsername
	}
	for _, u := range s.users {
		if u.Email == email {
			return nil, store.ErrDuplicateEmail
		}
	}

	user := &models.User{
		ID:           s.nextUserID,
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Balance:      decimal.Zero,
		CreatedAt:    time.Now(),
	}
	s.nextUserID++
	s.users[username] = user

	cp := *user
	return &cp, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *Store) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[username]
	return ok, nil
}

func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ProductExists(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.products[id]
	return ok, nil
}

func (s *Store) SearchProducts(_ context.Context, phrase string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Case-insensitive, matching MySQL's default collation.
	needle := strings.ToLower(phrase)
	var ids []int
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			ids = append(ids, p.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.categories...), nil
}

func (s *Store) GetBalance(_ context.Context, username string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return decimal.Zero, store.ErrUserNotFound
	}
	return user.Balance, nil
}

func (s *Store) AddFunds(_ context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return decimal.Zero, store.ErrUserNotFound
	}
	user.Balance = user.Balance.Add(amount)
	return user.Balance, nil
}

func (s *Store) Checkout(_ context.Context, username string, cart []int, claimedTotal decimal.Decimal) (*store.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	counts := make(map[int]int)
	for _, id := range cart {
		counts[id]++
	}

	total := decimal.Zero
	for id, count := range counts {
		p, ok := s.products[id]
		if !ok {
			return nil, store.ErrProductNotFound
		}
		if p.Quantity < count {
			return nil, store.ErrOutOfStock
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(count))))
	}

	if !total.Equal(claimedTotal) {
		return nil, store.ErrStaleTotal
	}

	newBalance := user.Balance.Sub(total)
	if newBalance.IsNegative() {
		return nil, store.ErrInsufficientFunds
	}

	// All checks passed; apply every mutation under the one lock.
	t := transaction{
		id:           s.nextTransactionID,
		username:     username,
		confirmation: uuid.NewString(),
		createdAt:    time.Now(),
	}
	s.nextTransactionID++
	for _, id := range cart {
		t.items = append(t.items, purchase{productID: id, price: s.products[id].Price})
	}
	for id, count := range counts {
		s.products[id].Quantity -= count
	}
	user.Balance = newBalance
	s.transactions = append(s.transactions, t)

	return &store.Receipt{Confirmation: t.confirmation, Total: total, Balance: newBalance}, nil
}

func (s *Store) GetTransactions(_ context.Context, username string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var transactions []models.Transaction
	for i := len(s.transactions) - 1; i >= 0; i-- {
		t := s.transactions[i]
		if t.username != username {
			continue
		}

		out := models.Transaction{
			ID:           t.id,
			Username:     t.username,
			Confirmation: t.confirmation,
			Time:         t.createdAt,
			Total:        decimal.Zero,
		}
		for _, item := range t.items {
			name := ""
			if p, ok := s.products[item.productID]; ok {
				name = p.Name
			}
			out.Products = append(out.Products, models.PurchasedItem{
				ProductID: item.productID,
				Product: models.ProductSummary{
					ID:    item.productID,
					Name:  name,
					Price: item.price,
				},
			})
			out.Total = out.Total.Add(item.price)
		}
		transactions = append(transactions, out)
	}

	return transactions, nil
}
