package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/pagination"
	"tripledger/internal/services"
)

// TripHandler handles trip requests.
type TripHandler struct {
	tripService        services.TripServicer
	transactionService services.TransactionServicer
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService services.TripServicer, transactionService services.TransactionServicer) *TripHandler {
	return &TripHandler{tripService: tripService, transactionService: transactionService}
}

// TripRequest represents the payload for creating or updating a trip
type TripRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=200"`
	CountryID uint    `json:"country_id" binding:"required"`
	CityID    *uint   `json:"city_id"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   *string `json:"end_date"`
	Memo      string  `json:"memo" binding:"max=1000"`
}

func (r *TripRequest) fields() (services.TripFields, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return services.TripFields{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format")
	}

	var end *time.Time
	if r.EndDate != nil && *r.EndDate != "" {
		parsed, err := parseDate(*r.EndDate)
		if err != nil {
			return services.TripFields{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format")
		}
		end = &parsed
	}

	return services.TripFields{
		Name:      r.Name,
		CountryID: r.CountryID,
		CityID:    r.CityID,
		StartDate: start,
		EndDate:   end,
		Memo:      r.Memo,
	}, nil
}

// CreateTrip handles the creation of a new trip
// @Summary     Create a trip
// @Description Create a trip for the authenticated user
// @Tags        trips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TripRequest true "Trip details"
// @Success     201 {object} models.Trip "Trip created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Country or city not found"
// @Router      /trips [post]
func (h *TripHandler) CreateTrip(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields, err := req.fields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	trip, err := h.tripService.CreateTrip(caller.UserID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// GetTrips lists the caller's trips
// @Summary     List trips
// @Description List trips visible to the caller, most recent first
// @Tags        trips
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Trip] "Trips"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /trips [get]
func (h *TripHandler) GetTrips(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.tripService.GetTrips(caller, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTrip returns one trip with its totals and recent transactions
// @Summary     Get a trip
// @Description Get a trip by ID with expense/income totals and recent transactions
// @Tags        trips
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Trip ID"
// @Success     200 {object} services.TripSummary "Trip detail"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /trips/{id} [get]
func (h *TripHandler) GetTrip(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tripID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.tripService.GetTripSummary(caller, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recent, err := h.transactionService.GetTransactions(caller,
		pagination.PageRequest{Page: 1, PageSize: 20},
		services.TransactionFilter{TripID: &tripID})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip":                summary.Trip,
		"total_expense":       summary.TotalExpense,
		"total_income":        summary.TotalIncome,
		"net_amount":          summary.NetAmount,
		"duration_days":       summary.DurationDays,
		"recent_transactions": recent.Data,
	})
}

// UpdateTrip replaces the trip's mutable fields
// @Summary     Update a trip
// @Description Replace the trip's fields
// @Tags        trips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Trip ID"
// @Param       request body TripRequest true "Trip details"
// @Success     200 {object} models.Trip "Updated trip"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /trips/{id} [put]
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tripID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields, err := req.fields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	trip, err := h.tripService.UpdateTrip(caller, tripID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// DeleteTrip removes a trip, keeping its transactions
// @Summary     Delete a trip
// @Description Delete a trip; its transactions survive without a trip reference
// @Tags        trips
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Trip ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /trips/{id} [delete]
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tripID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tripService.DeleteTrip(caller, tripID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
