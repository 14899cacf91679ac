package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

func InitDB(dbURL string) (*sql.DB, error) {
	// DATETIME columns scan into time.Time.
	if strings.Contains(dbURL, "?") {
		dbURL += "&parseTime=true"
	} else {
		dbURL += "?parseTime=true"
	}

	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database not reachable: %w", err)
	}

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			username VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			balance DECIMAL(12,2) NOT NULL DEFAULT 0.00,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			description TEXT,
			price DECIMAL(10,2) NOT NULL,
			quantity INT NOT NULL DEFAULT 0,
			category INT NOT NULL,
			image VARCHAR(255) NOT NULL DEFAULT '',
			rating DECIMAL(3,1) NOT NULL DEFAULT 0.0,
			FOREIGN KEY (category) REFERENCES categories(id),
			CHECK (quantity >= 0)
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			confirmation_num CHAR(36) NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_user_id (user_id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS purchased_products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			transaction_id INT NOT NULL,
			product_id INT NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			INDEX idx_transaction_id (transaction_id),
			FOREIGN KEY (transaction_id) REFERENCES transactions(id),
			FOREIGN KEY (product_id) REFERENCES products(id)
		);`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SeedCatalog inserts a starter catalog when the products table is empty.
func SeedCatalog(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if count > 0 {
		return nil
	}

	categories := []string{"Electronics", "Books", "Clothing", "Home"}
	for _, name := range categories {
		if _, err := db.Exec("INSERT IGNORE INTO categories (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}

	products := []struct {
		name, description string
		price             string
		quantity          int
		category          string
		rating            string
	}{
		{"Smartphone", "A phone with a large screen and a decent camera", "399.99", 25, "Electronics", "4.4"},
		{"Wireless Headphones", "Over-ear headphones with noise cancelling", "89.50", 40, "Electronics", "4.1"},
		{"Paperback Novel", "A page-turner for long commutes", "12.99", 120, "Books", "4.7"},
		{"Hooded Sweatshirt", "Warm fleece hoodie", "34.00", 60, "Clothing", "4.0"},
		{"Ceramic Mug", "Holds 350ml of your favourite drink", "8.25", 200, "Home", "4.8"},
	}
	for _, p := range products {
		if _, err := db.Exec(
			`INSERT INTO products (name, description, price, quantity, category, rating)
			 VALUES (?, ?, ?, ?, (SELECT id FROM categories WHERE name = ?), ?)`,
			p.name, p.description, p.price, p.quantity, p.category, p.rating,
		); err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
	}
	return nil
}
