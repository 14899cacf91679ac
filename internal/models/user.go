package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int             `json:"-"`
	Name         string          `json:"name"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"-"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the body returned by /login and /signup. The token lets
// clients call the authenticated endpoints; the rest mirrors the stored user.
type AuthResponse struct {
	Name     string          `json:"name"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Balance  decimal.Decimal `json:"balance"`
	Token    string          `json:"token,omitempty"`
}
