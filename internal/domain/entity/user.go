package entity

import (
	"strings"
	"time"

	errs "github.com/ledgervault/ledgervault/internal/domain/error"
)

// Currency is an ISO 4217 currency code supported by the store
type Currency string

// Supported currency codes
const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
	CurrencyJPY Currency = "JPY"
)

// DefaultCurrency is assigned to new accounts that do not choose one
const DefaultCurrency = CurrencyUSD

// SupportedCurrencies lists every currency the store accepts, in display order
var SupportedCurrencies = []Currency{
	CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR, CurrencyJPY,
}

var currencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyGBP: "£",
	CurrencyINR: "₹",
	CurrencyJPY: "¥",
}

// Valid reports whether the code is one of the supported currencies
func (c Currency) Valid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Symbol returns the display symbol for the currency, falling back to "$"
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return "$"
}

// User is an account record. Every transaction, budget and reminder row is
// owned by exactly one user; the gateway scopes all access by user id.
type User struct {
	ID         uint64
	Email      string
	SecretHash string
	Currency   Currency
	PinHash    string
	CreatedAt  time.Time
}

// HasPin reports whether a PIN has been configured for the account
func (u *User) HasPin() bool {
	return u.PinHash != ""
}

// ValidateRegistration checks the fields required to create an account.
// Email matching is case-sensitive exact, so no normalization happens here.
func ValidateRegistration(email, secret string, currency Currency) error {
	if strings.TrimSpace(email) == "" {
		return errs.NewValidationError("email", "must not be empty")
	}
	if secret == "" {
		return errs.NewValidationError("secret", "must not be empty")
	}
	if currency != "" && !currency.Valid() {
		return errs.NewValidationError("currency", "unsupported currency code")
	}
	return nil
}

// ValidatePin checks that a PIN is exactly 4 numeric digits
func ValidatePin(pin string) error {
	if len(pin) != 4 {
		return errs.NewValidationError("pin", "must be exactly 4 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return errs.NewValidationError("pin", "must contain only digits")
		}
	}
	return nil
}
