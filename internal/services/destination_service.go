package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
)

// destinationService manages the shared country/city reference data.
// Destinations have no owning user; writes are restricted to
// administrators at the routing layer.
type destinationService struct {
	db *gorm.DB
}

// NewDestinationService creates a new DestinationServicer.
func NewDestinationService(db *gorm.DB) DestinationServicer {
	return &destinationService{db: db}
}

// CreateCountry registers a new country
func (s *destinationService) CreateCountry(name string) (*models.Country, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "country name is required")
	}

	var count int64
	if err := s.db.Model(&models.Country{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCountry
	}

	country := &models.Country{Name: name}
	if err := s.db.Create(country).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return country, nil
}

// CreateCity registers a city under a country. City names are unique per country.
func (s *destinationService) CreateCity(countryID uint, name string) (*models.City, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "city name is required")
	}

	var country models.Country
	if err := s.db.First(&country, countryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCountryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.City{}).
		Where("country_id = ? AND name = ?", countryID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCity
	}

	city := &models.City{Name: name, CountryID: countryID}
	if err := s.db.Create(city).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return city, nil
}

// GetCountries lists all countries ordered by name
func (s *destinationService) GetCountries() ([]models.Country, error) {
	var countries []models.Country
	if err := s.db.Order("name").Find(&countries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return countries, nil
}

// GetCitiesByCountry lists the cities of a country ordered by name
func (s *destinationService) GetCitiesByCountry(countryID uint) ([]models.City, error) {
	var country models.Country
	if err := s.db.First(&country, countryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCountryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cities []models.City
	if err := s.db.Where("country_id = ?", countryID).Order("name").Find(&cities).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return cities, nil
}
