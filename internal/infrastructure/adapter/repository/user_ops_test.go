package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	"github.com/ledgervault/ledgervault/internal/domain/port/store"
)

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())

	t.Run("creates account with defaults", func(t *testing.T) {
		u, err := env.gateway.RegisterUser(ctx, "a@example.com", "secret123", "")
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, entity.DefaultCurrency, u.Currency)
		assert.NotEqual(t, "secret123", u.SecretHash, "secret must not be stored in clear")
		assert.False(t, u.HasPin())
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := env.gateway.RegisterUser(ctx, "a@example.com", "other", "")
		assert.ErrorIs(t, err, errs.ErrDuplicateIdentity)
	})

	t.Run("email match is case sensitive", func(t *testing.T) {
		_, err := env.gateway.RegisterUser(ctx, "A@example.com", "secret123", "")
		assert.NoError(t, err)
	})

	t.Run("rejects empty fields", func(t *testing.T) {
		_, err := env.gateway.RegisterUser(ctx, "", "secret123", "")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		_, err = env.gateway.RegisterUser(ctx, "b@example.com", "", "")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("rejects unsupported currency", func(t *testing.T) {
		_, err := env.gateway.RegisterUser(ctx, "c@example.com", "secret123", "XYZ")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	userID := registerUser(t, env, "a@example.com")

	t.Run("accepts valid credentials", func(t *testing.T) {
		u, err := env.gateway.Authenticate(ctx, "a@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, userID, u.ID)
	})

	t.Run("same failure for wrong secret and unknown email", func(t *testing.T) {
		_, err := env.gateway.Authenticate(ctx, "a@example.com", "wrong")
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
		_, err = env.gateway.Authenticate(ctx, "ghost@example.com", "secret123")
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		_, err := env.gateway.Authenticate(ctx, "", "")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestVerifyOrSetPin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	userID := registerUser(t, env, "a@example.com")

	t.Run("rejects malformed pins", func(t *testing.T) {
		for _, pin := range []string{"", "123", "12345", "12a4", "12.4"} {
			_, err := env.gateway.VerifyOrSetPin(ctx, userID, pin)
			assert.ErrorIs(t, err, errs.ErrInvalidInput, "pin %q", pin)
		}
	})

	t.Run("first valid pin is established", func(t *testing.T) {
		status, err := env.gateway.VerifyOrSetPin(ctx, userID, "1234")
		require.NoError(t, err)
		assert.Equal(t, store.PinEstablished, status)

		u, err := env.gateway.GetUser(ctx, userID)
		require.NoError(t, err)
		assert.True(t, u.HasPin())
		assert.NotEqual(t, "1234", u.PinHash, "pin must not be stored in clear")
	})

	t.Run("matching pin is accepted, differing pin rejected", func(t *testing.T) {
		status, err := env.gateway.VerifyOrSetPin(ctx, userID, "1234")
		require.NoError(t, err)
		assert.Equal(t, store.PinAccepted, status)

		_, err = env.gateway.VerifyOrSetPin(ctx, userID, "4321")
		assert.ErrorIs(t, err, errs.ErrPinRejected)
	})

	t.Run("clear then set establishes a new pin", func(t *testing.T) {
		require.NoError(t, env.gateway.ClearPin(ctx, userID))
		// clearing an absent pin is a no-op
		require.NoError(t, env.gateway.ClearPin(ctx, userID))

		status, err := env.gateway.VerifyOrSetPin(ctx, userID, "4321")
		require.NoError(t, err)
		assert.Equal(t, store.PinEstablished, status)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.gateway.VerifyOrSetPin(ctx, 9999, "1234")
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.ErrorIs(t, env.gateway.ClearPin(ctx, 9999), errs.ErrNotFound)
	})
}

func TestSetCurrency(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	userID := registerUser(t, env, "a@example.com")

	require.NoError(t, env.gateway.SetCurrency(ctx, userID, entity.CurrencyINR))
	u, err := env.gateway.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.CurrencyINR, u.Currency)
	assert.Equal(t, "₹", u.Currency.Symbol())

	assert.ErrorIs(t, env.gateway.SetCurrency(ctx, userID, "XYZ"), errs.ErrInvalidInput)
	assert.ErrorIs(t, env.gateway.SetCurrency(ctx, 9999, entity.CurrencyEUR), errs.ErrNotFound)
}
