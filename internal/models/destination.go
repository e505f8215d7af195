package models

// Country represents a travel destination country
type Country struct {
	Base
	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	Cities []City `gorm:"foreignKey:CountryID;constraint:OnDelete:CASCADE" json:"cities,omitempty"`
}

// City represents a city within a country. City names are unique per country.
type City struct {
	Base
	Name      string  `gorm:"not null;uniqueIndex:uq_cities_name_country" json:"name"`
	CountryID uint    `gorm:"not null;uniqueIndex:uq_cities_name_country" json:"country_id"`
	Country   Country `gorm:"foreignKey:CountryID" json:"country,omitempty"`
}
