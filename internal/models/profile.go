package models

// AgeGroup represents the age bracket recorded on a profile
type AgeGroup string

const (
	AgeGroup10s AgeGroup = "10s"
	AgeGroup20s AgeGroup = "20s"
	AgeGroup30s AgeGroup = "30s"
	AgeGroup40s AgeGroup = "40s"
	AgeGroup50s AgeGroup = "50s"
)

// AgeGroups lists all age brackets in display order.
var AgeGroups = []AgeGroup{AgeGroup10s, AgeGroup20s, AgeGroup30s, AgeGroup40s, AgeGroup50s}

// Gender represents the gender recorded on a profile
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Profile holds demographic attributes for a user, one-to-one
type Profile struct {
	Base
	UserID   uint     `gorm:"uniqueIndex;not null" json:"user_id"`
	AgeGroup AgeGroup `gorm:"size:3;not null" json:"age_group"`
	Gender   Gender   `gorm:"size:1;not null" json:"gender"`
}
