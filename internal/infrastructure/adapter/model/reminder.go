package model

import (
	"github.com/shopspring/decimal"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
)

// Reminder is the persistence model for the reminders table
type Reminder struct {
	ID       uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserID   uint64          `gorm:"column:user_id;not null;index"`
	User     *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title    string          `gorm:"column:title;not null"`
	Amount   decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	DueDate  string          `gorm:"column:due_date;not null"`
	Category string          `gorm:"column:category"`
	IsPaid   bool            `gorm:"column:is_paid;not null;default:false"`
}

// TableName overrides the gorm naming convention
func (Reminder) TableName() string {
	return "reminders"
}

// ToEntity converts the persistence model to a domain record
func (m *Reminder) ToEntity() entity.Reminder {
	return entity.Reminder{
		ID:       m.ID,
		UserID:   m.UserID,
		Title:    m.Title,
		Amount:   m.Amount,
		DueDate:  m.DueDate,
		Category: m.Category,
		Paid:     m.IsPaid,
	}
}

// ReminderFromEntity builds a persistence model from a domain record
func ReminderFromEntity(userID uint64, r entity.Reminder) *Reminder {
	return &Reminder{
		ID:       r.ID,
		UserID:   userID,
		Title:    r.Title,
		Amount:   r.Amount,
		DueDate:  r.DueDate,
		Category: r.Category,
		IsPaid:   r.Paid,
	}
}
