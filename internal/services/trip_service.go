package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/ownership"
	"tripledger/internal/pagination"
)

// tripService handles trip-related business logic.
type tripService struct {
	db *gorm.DB
}

// NewTripService creates a new TripServicer.
func NewTripService(db *gorm.DB) TripServicer {
	return &tripService{db: db}
}

// validateTripFields checks destination references and the date invariant.
func (s *tripService) validateTripFields(fields TripFields) error {
	if fields.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "trip name is required")
	}
	if fields.StartDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start date is required")
	}
	if fields.EndDate != nil && fields.EndDate.Before(fields.StartDate) {
		return apperrors.ErrInvalidDateRange
	}

	var country models.Country
	if err := s.db.First(&country, fields.CountryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCountryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if fields.CityID != nil {
		var city models.City
		if err := s.db.First(&city, *fields.CityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCityNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if city.CountryID != fields.CountryID {
			return apperrors.ErrCityCountryMismatch
		}
	}

	return nil
}

// CreateTrip creates a new trip for a user
func (s *tripService) CreateTrip(userID uint, fields TripFields) (*models.Trip, error) {
	if err := s.validateTripFields(fields); err != nil {
		return nil, err
	}

	trip := &models.Trip{
		UserID:    userID,
		Name:      fields.Name,
		CountryID: fields.CountryID,
		CityID:    fields.CityID,
		StartDate: fields.StartDate,
		EndDate:   fields.EndDate,
		Memo:      fields.Memo,
	}

	if err := s.db.Create(trip).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return trip, nil
}

// GetTrips retrieves a paginated list of trips visible to the caller,
// most recent first. Administrators see every user's trips.
func (s *tripService) GetTrips(caller ownership.Caller, page pagination.PageRequest) (*pagination.PageResponse[models.Trip], error) {
	page.Defaults()

	base := ownership.Scope(s.db.Model(&models.Trip{}), caller)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trips []models.Trip
	if err := base.Preload("Country").Preload("City").
		Scopes(pagination.Paginate(page)).
		Order("start_date DESC").
		Find(&trips).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(trips, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTripByID retrieves a trip by ID, answering 403 for a foreign trip.
func (s *tripService) GetTripByID(caller ownership.Caller, tripID uint) (*models.Trip, error) {
	var trip models.Trip
	if err := s.db.Preload("Country").Preload("City").First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := ownership.Authorize(caller, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetTripSummary returns a trip together with its income/expense totals.
// A trip with no transactions reports zero totals.
func (s *tripService) GetTripSummary(caller ownership.Caller, tripID uint) (*TripSummary, error) {
	trip, err := s.GetTripByID(caller, tripID)
	if err != nil {
		return nil, err
	}

	type totals struct {
		TotalIncome  int64
		TotalExpense int64
	}
	var t totals
	err = s.db.Model(&models.Transaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_expense",
			models.TransactionTypeIncome, models.TransactionTypeExpense).
		Where("trip_id = ?", trip.ID).
		Scan(&t).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &TripSummary{
		Trip:         trip,
		TotalExpense: t.TotalExpense,
		TotalIncome:  t.TotalIncome,
		NetAmount:    t.TotalIncome - t.TotalExpense,
		DurationDays: trip.DurationDays(),
	}, nil
}

// UpdateTrip replaces the mutable fields of a trip
func (s *tripService) UpdateTrip(caller ownership.Caller, tripID uint, fields TripFields) (*models.Trip, error) {
	trip, err := s.GetTripByID(caller, tripID)
	if err != nil {
		return nil, err
	}

	if err := s.validateTripFields(fields); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":       fields.Name,
		"country_id": fields.CountryID,
		"city_id":    fields.CityID,
		"start_date": fields.StartDate,
		"end_date":   fields.EndDate,
		"memo":       fields.Memo,
	}
	if err := s.db.Model(trip).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTripByID(caller, tripID)
}

// DeleteTrip removes a trip. Transactions recorded during the trip survive
// with their trip reference cleared.
func (s *tripService) DeleteTrip(caller ownership.Caller, tripID uint) error {
	trip, err := s.GetTripByID(caller, tripID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("trip_id = ?", trip.ID).
			Update("trip_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(trip).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
