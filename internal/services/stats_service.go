package services

import (
	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
)

// statsService computes the anonymous service-wide numbers shown on the
// landing page. Nothing here is scoped to a caller; the results contain
// only aggregate counts and names.
type statsService struct {
	db *gorm.DB
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(db *gorm.DB) StatsServicer {
	return &statsService{db: db}
}

// GetOverview returns user/trip counts, the total recorded spend, the
// three countries with the highest trip spending, and the three most
// visited destinations per age bracket.
func (s *statsService) GetOverview() (*ServiceOverview, error) {
	overview := &ServiceOverview{}

	if err := s.db.Model(&models.User{}).
		Where("is_active = ?", true).
		Count(&overview.TotalUsers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.Trip{}).Count(&overview.TotalTrips).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totalSpent struct{ Total int64 }
	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("type = ?", models.TransactionTypeExpense).
		Scan(&totalSpent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	overview.TotalSpent = totalSpent.Total

	topCountries, err := s.topCountriesByExpense(3)
	if err != nil {
		return nil, err
	}
	overview.TopCountries = topCountries

	ageGroups, err := s.destinationsByAgeGroup(3)
	if err != nil {
		return nil, err
	}
	overview.AgeGroupDestinations = ageGroups

	return overview, nil
}

// topCountriesByExpense ranks countries by the expenses booked against
// trips to them.
func (s *statsService) topCountriesByExpense(limit int) ([]CountryExpense, error) {
	var countries []CountryExpense
	err := s.db.Model(&models.Transaction{}).
		Select("countries.name AS country_name, SUM(transactions.amount) AS total_amount").
		Joins("JOIN trips ON trips.id = transactions.trip_id").
		Joins("JOIN countries ON countries.id = trips.country_id").
		Where("transactions.type = ?", models.TransactionTypeExpense).
		Group("countries.name").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&countries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if countries == nil {
		countries = []CountryExpense{}
	}
	return countries, nil
}

// destinationsByAgeGroup computes the most visited destinations per age
// bracket. One grouped query fetches all rows; the per-bracket top-N cut
// happens in Go. Brackets without any trips are omitted.
func (s *statsService) destinationsByAgeGroup(limit int) ([]AgeGroupDestinations, error) {
	var rows []struct {
		AgeGroup    models.AgeGroup
		CountryName string
		CityName    string
		VisitCount  int
	}
	err := s.db.Model(&models.Trip{}).
		Select(
			"profiles.age_group AS age_group, countries.name AS country_name, " +
				"COALESCE(cities.name, '') AS city_name, COUNT(trips.id) AS visit_count").
		Joins("JOIN profiles ON profiles.user_id = trips.user_id").
		Joins("JOIN countries ON countries.id = trips.country_id").
		Joins("LEFT JOIN cities ON cities.id = trips.city_id").
		Group("profiles.age_group, countries.name, cities.name").
		Order("visit_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byGroup := make(map[models.AgeGroup][]Destination)
	for _, row := range rows {
		if len(byGroup[row.AgeGroup]) >= limit {
			continue
		}
		byGroup[row.AgeGroup] = append(byGroup[row.AgeGroup], Destination{
			CountryName: row.CountryName,
			CityName:    row.CityName,
			VisitCount:  row.VisitCount,
		})
	}

	// Emit brackets in their natural order rather than map order.
	result := make([]AgeGroupDestinations, 0, len(byGroup))
	for _, group := range models.AgeGroups {
		if destinations, ok := byGroup[group]; ok {
			result = append(result, AgeGroupDestinations{
				AgeGroup:     group,
				Destinations: destinations,
			})
		}
	}
	return result, nil
}
