package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopfront/internal/models"
	"shopfront/internal/store"
)

const duplicateEntryErrNo = 1062

type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

func New(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) CreateUser(ctx context.Context, name, username, passwordHash, email string) (*models.User, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (name, username, password_hash, email, balance) VALUES (?, ?, ?, ?, 0.00)",
		name, username, passwordHash, email,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryErrNo {
			if strings.Contains(mysqlErr.Message, "email") {
				return nil, store.ErrDuplicateEmail
			}
			return nil, store.ErrDuplicateUsername
		}
		s.logger.Error().Err(err).Str("username", username).Msg("Error creating user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetUserByUsername(ctx, username)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, username, email, password_hash, balance, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Name, &user.Username, &user.Email, &user.PasswordHash, &user.Balance, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Error fetching user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM users WHERE username = ?", username)
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM users WHERE email = ?", email)
}

func (s *Store) ProductExists(ctx context.Context, id int) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM products WHERE id = ?", id)
}

func (s *Store) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return true, nil
}

const productColumns = "p.id, p.name, p.description, p.price, p.quantity, c.name, p.image, p.rating"

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products p JOIN categories c ON c.id = p.category",
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing products")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.Category, &p.Image, &p.Rating); err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product

	err := s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products p JOIN categories c ON c.id = p.category WHERE p.id = ?",
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.Category, &p.Image, &p.Rating)

	if err == sql.ErrNoRows {
		return nil, store.ErrProductNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", id).Msg("Error fetching product")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &p, nil
}

func (s *Store) SearchProducts(ctx context.Context, phrase string) ([]int, error) {
	pattern := "%" + phrase + "%"
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM products WHERE name LIKE ? OR description LIKE ?",
		pattern, pattern,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("phrase", phrase).Msg("Error searching products")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM categories")
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing categories")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := s.db.QueryRowContext(ctx, "SELECT balance FROM users WHERE username = ?", username).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, store.ErrUserNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Error fetching balance")
		return decimal.Zero, fmt.Errorf("database error: %w", err)
	}

	return balance, nil
}

func (s *Store) AddFunds(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting funds transaction")
		return decimal.Zero, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx, "SELECT balance FROM users WHERE username = ? FOR UPDATE", username).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, store.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch balance: %w", err)
	}

	newBalance := balance.Add(amount)
	if _, err := tx.ExecContext(ctx, "UPDATE users SET balance = ? WHERE username = ?", newBalance, username); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing funds transaction")
		return decimal.Zero, fmt.Errorf("failed to commit: %w", err)
	}

	s.logger.Info().
		Str("username", username).
		Str("amount", amount.String()).
		Str("balance", newBalance.String()).
		Msg("Funds added")

	return newBalance, nil
}

func (s *Store) Checkout(ctx context.Context, username string, cart []int, claimedTotal decimal.Decimal) (*store.Receipt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting checkout transaction")
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var userID int
	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		"SELECT id, balance FROM users WHERE username = ? FOR UPDATE", username,
	).Scan(&userID, &balance)
	if err == sql.ErrNoRows {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock user row: %w", err)
	}

	// Duplicate ids in the cart encode quantity; lock each distinct product
	// once and check the whole wanted amount against stock.
	counts, order := cartCounts(cart)

	total := decimal.Zero
	prices := make(map[int]decimal.Decimal)
	for _, id := range order {
		var price decimal.Decimal
		var quantity int
		err = tx.QueryRowContext(ctx,
			"SELECT price, quantity FROM products WHERE id = ? FOR UPDATE", id,
		).Scan(&price, &quantity)
		if err == sql.ErrNoRows {
			return nil, store.ErrProductNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock product row: %w", err)
		}
		if quantity < counts[id] {
			return nil, store.ErrOutOfStock
		}
		prices[id] = price
		total = total.Add(price.Mul(decimal.NewFromInt(int64(counts[id]))))
	}

	// The client's total is a claim, not an instruction. The prices read
	// under lock are authoritative; a mismatch means the cart is stale.
	if !total.Equal(claimedTotal) {
		return nil, store.ErrStaleTotal
	}

	newBalance := balance.Sub(total)
	if newBalance.IsNegative() {
		return nil, store.ErrInsufficientFunds
	}

	confirmation := uuid.NewString()
	result, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (user_id, confirmation_num) VALUES (?, ?)",
		userID, confirmation,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	transactionID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction id: %w", err)
	}

	for _, id := range cart {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO purchased_products (transaction_id, product_id, price) VALUES (?, ?, ?)",
			transactionID, id, prices[id],
		); err != nil {
			return nil, fmt.Errorf("failed to record purchased product: %w", err)
		}
	}

	for _, id := range order {
		res, err := tx.ExecContext(ctx,
			"UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?",
			counts[id], id, counts[id],
		)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check stock decrement: %w", err)
		}
		if affected == 0 {
			return nil, store.ErrOutOfStock
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET balance = ? WHERE id = ?", newBalance, userID,
	); err != nil {
		return nil, fmt.Errorf("failed to debit balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing checkout transaction")
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	s.logger.Info().
		Str("username", username).
		Int("items", len(cart)).
		Str("total", total.String()).
		Str("confirmation", confirmation).
		Msg("Checkout completed")

	return &store.Receipt{Confirmation: confirmation, Total: total, Balance: newBalance}, nil
}

// cartCounts collapses a cart into per-product quantities. The distinct ids
// come back sorted so every checkout acquires its product row locks in the
// same order; carts listing the same products in different orders would
// otherwise deadlock each other.
func cartCounts(cart []int) (map[int]int, []int) {
	counts := make(map[int]int)
	var order []int
	for _, id := range cart {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	sort.Ints(order)
	return counts, order
}

func (s *Store) GetTransactions(ctx context.Context, username string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.confirmation_num, t.created_at
		 FROM transactions t
		 JOIN users u ON u.id = t.user_id
		 WHERE u.username = ?
		 ORDER BY t.created_at DESC, t.id DESC`,
		username,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Error fetching transactions")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		t.Username = username
		if err := rows.Scan(&t.ID, &t.Confirmation, &t.Time); err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	for i := range transactions {
		items, total, err := s.transactionItems(ctx, transactions[i].ID)
		if err != nil {
			return nil, err
		}
		transactions[i].Products = items
		transactions[i].Total = total
	}

	return transactions, nil
}

// transactionItems reads a transaction's purchased products. The price comes
// from the purchased_products snapshot taken at checkout, not the live
// catalog, so the returned total is frozen.
func (s *Store) transactionItems(ctx context.Context, transactionID int) ([]models.PurchasedItem, decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pp.product_id, p.name, pp.price
		 FROM purchased_products pp
		 JOIN products p ON p.id = pp.product_id
		 WHERE pp.transaction_id = ?`,
		transactionID,
	)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var items []models.PurchasedItem
	total := decimal.Zero
	for rows.Next() {
		var item models.PurchasedItem
		if err := rows.Scan(&item.ProductID, &item.Product.Name, &item.Product.Price); err != nil {
			return nil, decimal.Zero, fmt.Errorf("error scanning purchased product: %w", err)
		}
		item.Product.ID = item.ProductID
		total = total.Add(item.Product.Price)
		items = append(items, item)
	}
	return items, total, rows.Err()
}
