package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/models"
	"shopfront/internal/store"
	"shopfront/internal/store/memory"
)

func newAccountService() *AccountService {
	return NewAccountService(memory.New(), zerolog.Nop())
}

func TestSignupStartsAtZeroBalance(t *testing.T) {
	svc := newAccountService()

	user, err := svc.Signup(context.Background(), &models.SignupRequest{
		Name:     "Alice Smith",
		Username: "alice",
		Password: "hunter22",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Balance.IsZero())
	assert.NotEqual(t, "hunter22", user.PasswordHash, "password must be stored hashed")
}

func TestSignupRejectsDuplicates(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Name: "Alice", Username: "alice", Password: "pw", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &models.SignupRequest{Name: "Impostor", Username: "alice", Password: "pw", Email: "other@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)

	_, err = svc.Signup(ctx, &models.SignupRequest{Name: "Impostor", Username: "alice2", Password: "pw", Email: "alice@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestSignupRequiresAllFields(t *testing.T) {
	svc := newAccountService()

	_, err := svc.Signup(context.Background(), &models.SignupRequest{Username: "alice", Password: "pw", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Name: "Alice", Username: "alice", Password: "hunter22", Email: "alice@example.com"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Username: "alice"})
	assert.ErrorIs(t, err, ErrMissingFields)
}
