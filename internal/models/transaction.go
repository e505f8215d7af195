package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single income or expense entry
type Transaction struct {
	Base
	UserID     uint            `gorm:"not null;index:idx_transactions_user_occurred" json:"user_id"`
	AccountID  uint            `gorm:"not null" json:"account_id"`
	CategoryID uint            `gorm:"not null" json:"category_id"`
	TripID     *uint           `json:"trip_id,omitempty"`
	Type       TransactionType `gorm:"size:10;not null" json:"type"`
	Amount     int64           `gorm:"type:bigint;not null" json:"amount"`
	OccurredAt time.Time       `gorm:"not null;index:idx_transactions_user_occurred" json:"occurred_at"`
	Merchant   string          `gorm:"size:200" json:"merchant"`
	Memo       string          `json:"memo"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Trip     *Trip     `gorm:"foreignKey:TripID" json:"trip,omitempty"`
	Receipts []Receipt `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"receipts,omitempty"`
}

// OwnerID returns the owning user for ownership checks
func (t *Transaction) OwnerID() uint { return t.UserID }
