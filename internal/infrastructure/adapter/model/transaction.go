package model

import (
	"github.com/shopspring/decimal"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
)

// Transaction is the persistence model for the transactions table. The kind
// lives in the legacy "type" column with a CHECK constraint limiting it to
// the two allowed values; recurrence flags are stored as proper booleans and
// the engine encodes them as integers.
type Transaction struct {
	ID                 uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserID             uint64          `gorm:"column:user_id;not null;index"`
	User               *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Amount             decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	Kind               string          `gorm:"column:type;not null;check:chk_transactions_type,type IN ('income','expense')"`
	Category           string          `gorm:"column:category;not null"`
	Date               string          `gorm:"column:date;not null;index"`
	Description        string          `gorm:"column:description"`
	IsRecurring        bool            `gorm:"column:is_recurring;not null;default:false"`
	RecurringFrequency string          `gorm:"column:recurring_frequency"`
}

// TableName overrides the gorm naming convention
func (Transaction) TableName() string {
	return "transactions"
}

// ToEntity converts the persistence model to a domain record
func (m *Transaction) ToEntity() entity.Transaction {
	return entity.Transaction{
		ID:                 m.ID,
		UserID:             m.UserID,
		Amount:             m.Amount,
		Kind:               entity.Kind(m.Kind),
		Category:           m.Category,
		Date:               m.Date,
		Note:               m.Description,
		Recurring:          m.IsRecurring,
		RecurringFrequency: m.RecurringFrequency,
	}
}

// TransactionFromEntity builds a persistence model from a domain record
func TransactionFromEntity(userID uint64, t entity.Transaction) *Transaction {
	return &Transaction{
		ID:                 t.ID,
		UserID:             userID,
		Amount:             t.Amount,
		Kind:               string(t.Kind),
		Category:           t.Category,
		Date:               t.Date,
		Description:        t.Note,
		IsRecurring:        t.Recurring,
		RecurringFrequency: t.RecurringFrequency,
	}
}
