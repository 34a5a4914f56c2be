package model

import (
	"time"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
)

// User is the persistence model for the users table. Column names follow the
// persisted schema, which predates this implementation.
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Currency     string    `gorm:"column:currency;not null;default:USD"`
	PinCode      string    `gorm:"column:pin_code"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the gorm naming convention
func (User) TableName() string {
	return "users"
}

// ToEntity converts the persistence model to a domain record
func (m *User) ToEntity() *entity.User {
	return &entity.User{
		ID:         m.ID,
		Email:      m.Email,
		SecretHash: m.PasswordHash,
		Currency:   entity.Currency(m.Currency),
		PinHash:    m.PinCode,
		CreatedAt:  m.CreatedAt,
	}
}
