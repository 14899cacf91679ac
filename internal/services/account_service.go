package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/models"
	"shopfront/internal/store"
)

type AccountService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewAccountService(store store.Store, logger zerolog.Logger) *AccountService {
	return &AccountService{store: store, logger: logger}
}

func (s *AccountService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if req.Name == "" || req.Username == "" || req.Password == "" || req.Email == "" {
		return nil, ErrMissingFields
	}

	taken, err := s.store.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, store.ErrDuplicateUsername
	}

	taken, err = s.store.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, store.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, req.Name, req.Username, string(hash), req.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Str("email", user.Email).Msg("User registered")
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err == store.ErrUserNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("username", user.Username).Msg("User authenticated")
	return user, nil
}

func (s *AccountService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}
