package model

import (
	"github.com/shopspring/decimal"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
)

// Budget is the persistence model for the budgets table
type Budget struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      uint64          `gorm:"column:user_id;not null;index"`
	User        *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Category    string          `gorm:"column:category;not null"`
	AmountLimit decimal.Decimal `gorm:"column:amount_limit;type:numeric;not null"`
	Period      string          `gorm:"column:period;not null;default:monthly"`
}

// TableName overrides the gorm naming convention
func (Budget) TableName() string {
	return "budgets"
}

// ToEntity converts the persistence model to a domain record
func (m *Budget) ToEntity() entity.Budget {
	return entity.Budget{
		ID:       m.ID,
		UserID:   m.UserID,
		Category: m.Category,
		Limit:    m.AmountLimit,
		Period:   m.Period,
	}
}

// BudgetFromEntity builds a persistence model from a domain record
func BudgetFromEntity(userID uint64, b entity.Budget) *Budget {
	return &Budget{
		ID:          b.ID,
		UserID:      userID,
		Category:    b.Category,
		AmountLimit: b.Limit,
		Period:      b.Period,
	}
}
