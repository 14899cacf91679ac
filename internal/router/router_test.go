package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/models"
	"shopfront/internal/store/memory"
)

const testSecret = "test-secret"

func newTestRouter() *mux.Router {
	st := memory.New()
	st.AddProduct(models.Product{ID: 3, Name: "Paperback Novel", Description: "A page-turner", Price: decimal.RequireFromString("2.50"), Quantity: 10, Category: "Books"})
	st.AddProduct(models.Product{ID: 5, Name: "Smartphone", Description: "A phone with a large screen", Price: decimal.RequireFromString("4.00"), Quantity: 4, Category: "Electronics"})

	return SetupRouter(st, testSecret, zerolog.Nop())
}

func doJSON(t *testing.T, r *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doForm(t *testing.T, r *mux.Router, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func signup(t *testing.T, r *mux.Router, username string) string {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/signup", map[string]string{
		"name":     "Test User",
		"username": username,
		"password": "hunter22",
		"email":    username + "@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Balance decimal.Decimal `json:"balance"`
		Token   string          `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Balance.IsZero())
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestCatalogEndpoints(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)

	rec = doJSON(t, r, http.MethodGet, "/product/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Paperback Novel", product.Name)
	assert.Equal(t, "Books", product.Category)

	rec = doJSON(t, r, http.MethodGet, "/product/999", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid product id")

	rec = doJSON(t, r, http.MethodGet, "/product/notanumber", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.ElementsMatch(t, []string{"Books", "Electronics"}, categories)
}

func TestSearchEndpoint(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodGet, "/search?phrase=phone", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ids []int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
	assert.ElementsMatch(t, []int{5}, ids)

	rec = doJSON(t, r, http.MethodGet, "/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing one or more of the required params.")
}

func TestSignupAndLogin(t *testing.T) {
	r := newTestRouter()
	signup(t, r, "alice")

	rec := doJSON(t, r, http.MethodPost, "/signup", map[string]string{
		"name": "Dup", "username": "alice", "password": "pw", "email": "dup@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already exists!", rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/signup", map[string]string{
		"name": "Dup", "username": "alice2", "password": "pw", "email": "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists!", rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/login", map[string]string{
		"username": "alice", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice@example.com", resp.Email)

	rec = doJSON(t, r, http.MethodPost, "/login", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid username or password!", rec.Body.String())
}

func TestAddFundsEndpoint(t *testing.T) {
	r := newTestRouter()
	signup(t, r, "alice")

	// The browser client posts form data.
	rec := doForm(t, r, "/user/balance", url.Values{"username": {"alice"}, "funds": {"25.00"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "25.00", rec.Body.String())

	rec = doForm(t, r, "/user/balance", url.Values{"username": {"alice"}, "funds": {"-1.00"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot add negative or no funds!", rec.Body.String())

	rec = doForm(t, r, "/user/balance", url.Values{"username": {"ghost"}, "funds": {"5.00"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username does not exist!", rec.Body.String())

	rec = doForm(t, r, "/user/balance", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing one or more of the required params.", rec.Body.String())
}

func TestCheckoutEndpoint(t *testing.T) {
	r := newTestRouter()
	signup(t, r, "alice")
	doForm(t, r, "/user/balance", url.Values{"username": {"alice"}, "funds": {"10.00"}})

	rec := doJSON(t, r, http.MethodPost, "/transaction", map[string]interface{}{
		"username": "alice",
		"cart":     []int{3, 3, 5},
		"total":    "9.00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Balance.Equal(decimal.RequireFromString("1.00")))
	assert.NotEmpty(t, resp.Confirmation)

	// Insufficient funds now; nothing else changes.
	rec = doJSON(t, r, http.MethodPost, "/transaction", map[string]interface{}{
		"username": "alice",
		"cart":     []int{5},
		"total":    "4.00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient funds!", rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/transaction", map[string]interface{}{
		"username": "ghost",
		"cart":     []int{3},
		"total":    "2.50",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username does not exist!", rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/transaction", map[string]interface{}{
		"username": "alice",
		"cart":     []int{},
		"total":    "0.00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutFormEncodedCart(t *testing.T) {
	r := newTestRouter()
	signup(t, r, "bob")
	doForm(t, r, "/user/balance", url.Values{"username": {"bob"}, "funds": {"10.00"}})

	// Cart arrives as a JSON string inside the form, as the client sends it.
	rec := doForm(t, r, "/transaction", url.Values{
		"username": {"bob"},
		"cart":     {"[3,5]"},
		"total":    {"6.50"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Balance.Equal(decimal.RequireFromString("3.50")))
}

func TestTransactionHistoryEndpoint(t *testing.T) {
	r := newTestRouter()
	signup(t, r, "alice")
	doForm(t, r, "/user/balance", url.Values{"username": {"alice"}, "funds": {"10.00"}})
	doJSON(t, r, http.MethodPost, "/transaction", map[string]interface{}{
		"username": "alice", "cart": []int{3, 3}, "total": "5.00",
	})

	rec := doJSON(t, r, http.MethodPost, "/user/transactions", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)

	var transactions []models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transactions))
	require.Len(t, transactions, 1)
	assert.Len(t, transactions[0].Products, 2)
	assert.True(t, transactions[0].Total.Equal(decimal.RequireFromString("5.00")))

	rec = doJSON(t, r, http.MethodPost, "/user/transactions", map[string]string{"username": "ghost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username does not exist!", rec.Body.String())
}

func TestProfileRequiresToken(t *testing.T) {
	r := newTestRouter()
	token := signup(t, r, "alice")

	rec := doJSON(t, r, http.MethodGet, "/user/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	ok := httptest.NewRecorder()
	r.ServeHTTP(ok, req)
	require.Equal(t, http.StatusOK, ok.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(ok.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)

	req = httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	bad := httptest.NewRecorder()
	r.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
