package models

// Account represents a bank account that transactions are recorded against
type Account struct {
	Base
	UserID        uint   `gorm:"not null;index" json:"user_id"`
	Name          string `gorm:"not null" json:"name"`
	BankName      string `gorm:"not null" json:"bank_name"`
	AccountNumber string `gorm:"size:50" json:"account_number"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// OwnerID returns the owning user for ownership checks
func (a *Account) OwnerID() uint { return a.UserID }
