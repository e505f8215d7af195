package models

import "time"

// Receipt represents a stored receipt file attached to a transaction.
// Files live on disk under the configured receipt directory; FileKey is
// the generated on-disk name, Filename the name supplied at upload.
type Receipt struct {
	Base
	TransactionID uint      `gorm:"not null;index" json:"transaction_id"`
	FileKey       string    `gorm:"not null;uniqueIndex" json:"file_key"`
	Filename      string    `gorm:"not null" json:"filename"`
	Size          int64     `gorm:"not null" json:"size"`
	UploadedAt    time.Time `gorm:"not null" json:"uploaded_at"`

	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"-"`
}
