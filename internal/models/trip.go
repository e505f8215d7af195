package models

import "time"

// Trip represents a journey that transactions can be grouped under
type Trip struct {
	Base
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Name      string     `gorm:"not null" json:"name"`
	CountryID uint       `gorm:"not null" json:"country_id"`
	CityID    *uint      `json:"city_id,omitempty"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Memo      string     `json:"memo"`

	// Relationships
	Country      Country       `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	City         *City         `gorm:"foreignKey:CityID" json:"city,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:TripID" json:"transactions,omitempty"`
}

// OwnerID returns the owning user for ownership checks
func (t *Trip) OwnerID() uint { return t.UserID }

// DurationDays returns the trip length in days, inclusive of both ends.
// Open-ended trips count as a single day.
func (t *Trip) DurationDays() int {
	if t.EndDate == nil {
		return 1
	}
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}
