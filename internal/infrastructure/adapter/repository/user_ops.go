package repository

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	"github.com/ledgervault/ledgervault/internal/domain/port/store"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/model"
)

// timingDummy is compared against when authentication targets an unknown
// email, so the lookup-miss path costs roughly as much as a hash mismatch.
var timingDummy, _ = bcrypt.GenerateFromPassword([]byte("ledgervault.timing.pad"), bcrypt.DefaultCost)

// RegisterUser creates an account. Email matching is case-sensitive exact;
// registering an existing email fails with a duplicate-identity error. The
// secret is stored as a bcrypt hash, never in clear.
func (g *Gateway) RegisterUser(ctx context.Context, email, secret string, currency entity.Currency) (*entity.User, error) {
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	if err := entity.ValidateRegistration(email, secret, currency); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), g.bcryptCost)
	if err != nil {
		return nil, errors.Join(errs.ErrInternal, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var created model.User
	err = g.runTx(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrDuplicateIdentity
		}

		created = model.User{
			Email:        email,
			PasswordHash: string(hash),
			Currency:     string(currency),
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, mapEngineError(err)
	}

	if err := g.commit(ctx, "registerUser"); err != nil {
		return nil, err
	}

	g.logger.Info("User registered", map[string]any{
		"user_id":  created.ID,
		"currency": created.Currency,
	})
	return created.ToEntity(), nil
}

// Authenticate verifies credentials. The same generic failure covers an
// unknown email and a wrong secret.
func (g *Gateway) Authenticate(ctx context.Context, email, secret string) (*entity.User, error) {
	if email == "" || secret == "" {
		return nil, errs.NewValidationError("credentials", "email and password are required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var m model.User
	err := g.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(timingDummy, []byte(secret))
			return nil, errs.ErrInvalidCredentials
		}
		return nil, mapEngineError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(secret)) != nil {
		return nil, errs.ErrInvalidCredentials
	}

	return m.ToEntity(), nil
}

// GetUser returns the account record by id
func (g *Gateway) GetUser(ctx context.Context, userID uint64) (*entity.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var m model.User
	if err := g.db.WithContext(ctx).First(&m, userID).Error; err != nil {
		return nil, mapEngineError(err)
	}
	return m.ToEntity(), nil
}

// VerifyOrSetPin establishes the PIN when the account has none, otherwise
// compares the submitted PIN against the stored one. Exactly 4 numeric
// digits are accepted.
func (g *Gateway) VerifyOrSetPin(ctx context.Context, userID uint64, pin string) (store.PinStatus, error) {
	if err := entity.ValidatePin(pin); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var m model.User
	if err := g.db.WithContext(ctx).First(&m, userID).Error; err != nil {
		return "", mapEngineError(err)
	}

	if m.PinCode != "" {
		if bcrypt.CompareHashAndPassword([]byte(m.PinCode), []byte(pin)) != nil {
			return "", errs.ErrPinRejected
		}
		return store.PinAccepted, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), g.bcryptCost)
	if err != nil {
		return "", errors.Join(errs.ErrInternal, err)
	}

	err = g.runTx(ctx, func(tx *gorm.DB) error {
		return tx.Model(&model.User{}).Where("id = ?", userID).
			Update("pin_code", string(hash)).Error
	})
	if err != nil {
		return "", mapEngineError(err)
	}
	if err := g.commit(ctx, "verifyOrSetPin"); err != nil {
		return "", err
	}

	g.logger.Info("PIN established", map[string]any{
		"user_id": userID,
	})
	return store.PinEstablished, nil
}

// ClearPin removes the account PIN. Clearing an absent PIN is a no-op.
func (g *Gateway) ClearPin(ctx context.Context, userID uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var rows int64
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).Where("id = ?", userID).Update("pin_code", "")
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return mapEngineError(err)
	}
	if rows == 0 {
		return errs.ErrNotFound
	}
	return g.commit(ctx, "clearPin")
}

// SetCurrency changes the account's preferred currency
func (g *Gateway) SetCurrency(ctx context.Context, userID uint64, currency entity.Currency) error {
	if !currency.Valid() {
		return errs.NewValidationError("currency", "unsupported currency code")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var rows int64
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).Where("id = ?", userID).Update("currency", string(currency))
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return mapEngineError(err)
	}
	if rows == 0 {
		return errs.ErrNotFound
	}
	return g.commit(ctx, "setCurrency")
}
