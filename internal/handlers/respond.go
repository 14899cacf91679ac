package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopfront/internal/models"
	"shopfront/internal/services"
	"shopfront/internal/store"
)

// Error bodies are plain text. Clients get a human-readable message for
// rule violations and one generic sentence for anything else; the real
// cause stays in the server log.
const genericErrorMessage = "Uh oh. Something went wrong. Please try again later."

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func respondError(w http.ResponseWriter, logger zerolog.Logger, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields), errors.Is(err, services.ErrEmptyCart):
		respondText(w, http.StatusBadRequest, "Missing one or more of the required params.")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondText(w, http.StatusBadRequest, "Invalid username or password!")
	case errors.Is(err, services.ErrInvalidFundsAmount):
		respondText(w, http.StatusBadRequest, "Cannot add negative or no funds!")
	case errors.Is(err, store.ErrDuplicateUsername):
		respondText(w, http.StatusBadRequest, "Username already exists!")
	case errors.Is(err, store.ErrDuplicateEmail):
		respondText(w, http.StatusBadRequest, "Email already exists!")
	case errors.Is(err, store.ErrUserNotFound):
		respondText(w, http.StatusBadRequest, "Username does not exist!")
	case errors.Is(err, store.ErrProductNotFound):
		respondText(w, http.StatusBadRequest, "Invalid product id, product does not exist")
	case errors.Is(err, store.ErrInsufficientFunds):
		respondText(w, http.StatusBadRequest, "Insufficient funds!")
	case errors.Is(err, store.ErrOutOfStock):
		respondText(w, http.StatusBadRequest, "Not enough stock for one or more items in your cart.")
	case errors.Is(err, store.ErrStaleTotal):
		respondText(w, http.StatusBadRequest, "Cart total does not match current prices.")
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondText(w, http.StatusInternalServerError, genericErrorMessage)
	}
}

func isJSONRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// The browser client posts form data; API consumers post JSON. Both are
// accepted on every POST endpoint.

func parseSignup(r *http.Request) (*models.SignupRequest, error) {
	if isJSONRequest(r) {
		var req models.SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, services.ErrMissingFields
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, services.ErrMissingFields
	}
	return &models.SignupRequest{
		Name:     r.PostFormValue("name"),
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Email:    r.PostFormValue("email"),
	}, nil
}

func parseLogin(r *http.Request) (*models.LoginRequest, error) {
	if isJSONRequest(r) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, services.ErrMissingFields
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, services.ErrMissingFields
	}
	return &models.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, nil
}

func parseUsername(r *http.Request) (string, error) {
	if isJSONRequest(r) {
		var req struct {
			Username string `json:"username"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", services.ErrMissingFields
		}
		return req.Username, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", services.ErrMissingFields
	}
	return r.PostFormValue("username"), nil
}

func parseAddFunds(r *http.Request) (*models.AddFundsRequest, error) {
	if isJSONRequest(r) {
		var req struct {
			Username string          `json:"username"`
			Funds    decimal.Decimal `json:"funds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, services.ErrMissingFields
		}
		return &models.AddFundsRequest{Username: req.Username, Funds: req.Funds}, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, services.ErrMissingFields
	}
	fundsValue := r.PostFormValue("funds")
	if fundsValue == "" {
		return nil, services.ErrMissingFields
	}
	funds, err := decimal.NewFromString(fundsValue)
	if err != nil {
		return nil, services.ErrMissingFields
	}
	return &models.AddFundsRequest{Username: r.PostFormValue("username"), Funds: funds}, nil
}

func parseCheckout(r *http.Request) (*models.CheckoutRequest, error) {
	if isJSONRequest(r) {
		var req struct {
			Username string           `json:"username"`
			Cart     json.RawMessage  `json:"cart"`
			Total    *decimal.Decimal `json:"total"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, services.ErrMissingFields
		}
		if req.Total == nil {
			return nil, services.ErrMissingFields
		}
		cart, err := parseCart(req.Cart)
		if err != nil {
			return nil, err
		}
		return &models.CheckoutRequest{Username: req.Username, Cart: cart, Total: *req.Total}, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, services.ErrMissingFields
	}
	cartValue := r.PostFormValue("cart")
	totalValue := r.PostFormValue("total")
	if cartValue == "" || totalValue == "" {
		return nil, services.ErrMissingFields
	}
	var cart []int
	if err := json.Unmarshal([]byte(cartValue), &cart); err != nil {
		return nil, services.ErrMissingFields
	}
	total, err := decimal.NewFromString(totalValue)
	if err != nil {
		return nil, services.ErrMissingFields
	}
	return &models.CheckoutRequest{Username: r.PostFormValue("username"), Cart: cart, Total: total}, nil
}

// parseCart accepts the cart either as a JSON array of ids or as a string
// containing one, which is how the original form client serialises it.
func parseCart(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 {
		return nil, services.ErrMissingFields
	}

	var cart []int
	if err := json.Unmarshal(raw, &cart); err == nil {
		return cart, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, services.ErrMissingFields
	}
	if err := json.Unmarshal([]byte(encoded), &cart); err != nil {
		return nil, services.ErrMissingFields
	}
	return cart, nil
}
