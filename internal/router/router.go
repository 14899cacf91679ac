package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"shopfront/internal/handlers"
	"shopfront/internal/middleware"
	"shopfront/internal/services"
	"shopfront/internal/store"
)

func SetupRouter(st store.Store, jwtSecret string, logger zerolog.Logger) *mux.Router {
	authService := services.NewAuthService(jwtSecret, logger)

	catalogHandler := handlers.NewCatalogHandler(st, logger)
	accountHandler := handlers.NewAccountHandler(st, authService, logger)
	ledgerHandler := handlers.NewLedgerHandler(st, logger)
	checkoutHandler := handlers.NewCheckoutHandler(st, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(50), 100)

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	r.HandleFunc("/products", catalogHandler.Products).Methods("GET")
	r.HandleFunc("/product/{id}", catalogHandler.Product).Methods("GET")
	r.HandleFunc("/search", catalogHandler.Search).Methods("GET")
	r.HandleFunc("/categories", catalogHandler.Categories).Methods("GET")

	r.HandleFunc("/signup", accountHandler.Signup).Methods("POST")
	r.HandleFunc("/login", accountHandler.Login).Methods("POST")

	authenticate := middleware.Authentication(authService, logger)
	r.Handle("/user/profile", authenticate(http.HandlerFunc(accountHandler.Profile))).Methods("GET")

	r.HandleFunc("/user/transactions", checkoutHandler.Transactions).Methods("POST")
	r.HandleFunc("/transaction", checkoutHandler.Checkout).Methods("POST")
	r.HandleFunc("/user/balance", ledgerHandler.AddFunds).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
