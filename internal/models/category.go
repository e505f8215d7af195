package models

// Category represents a spending category. Categories are shared across
// all users and managed by administrators; transactions reference them
// with ON DELETE RESTRICT so a category in use cannot be removed.
type Category struct {
	Base
	Name        string `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Description string `json:"description"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
