package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"shopfront/internal/middleware"
	"shopfront/internal/models"
	"shopfront/internal/services"
	"shopfront/internal/store"
)

type AccountHandler struct {
	accountService *services.AccountService
	authService    *services.AuthService
	logger         zerolog.Logger
}

func NewAccountHandler(st store.Store, auth *services.AuthService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: services.NewAccountService(st, logger),
		authService:    auth,
		logger:         logger,
	}
}

func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := parseSignup(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	user, err := h.accountService.Signup(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	token, err := h.authService.GenerateToken(user.Username)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.AuthResponse{
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Balance:  user.Balance,
		Token:    token,
	})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseLogin(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	user, err := h.accountService.Login(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	token, err := h.authService.GenerateToken(user.Username)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.AuthResponse{
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Balance:  user.Balance,
		Token:    token,
	})
}

// Profile serves the authenticated user's account; the username comes from
// the bearer token, not the request body.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r)
	if !ok {
		respondText(w, http.StatusUnauthorized, "Missing or invalid token.")
		return
	}

	user, err := h.accountService.GetProfile(r.Context(), username)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
