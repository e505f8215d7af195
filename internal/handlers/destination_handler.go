package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/services"
)

// DestinationHandler serves the shared country/city reference data.
type DestinationHandler struct {
	destinationService services.DestinationServicer
}

// NewDestinationHandler creates a new DestinationHandler.
func NewDestinationHandler(destinationService services.DestinationServicer) *DestinationHandler {
	return &DestinationHandler{destinationService: destinationService}
}

// CreateCountryRequest represents the payload for registering a country
type CreateCountryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateCityRequest represents the payload for registering a city
type CreateCityRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateCountry registers a new country (admin only)
// @Summary     Create a country
// @Description Register a country in the shared destination list
// @Tags        destinations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCountryRequest true "Country name"
// @Success     201 {object} models.Country "Country created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Administrator privileges required"
// @Failure     409 {object} ErrorResponse "Duplicate country"
// @Router      /countries [post]
func (h *DestinationHandler) CreateCountry(c *gin.Context) {
	var req CreateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	country, err := h.destinationService.CreateCountry(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"country": country})
}

// GetCountries lists all countries
// @Summary     List countries
// @Description List every registered country, ordered by name
// @Tags        destinations
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Country "Countries"
// @Router      /countries [get]
func (h *DestinationHandler) GetCountries(c *gin.Context) {
	countries, err := h.destinationService.GetCountries()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

// CreateCity registers a new city under a country (admin only)
// @Summary     Create a city
// @Description Register a city under the given country
// @Tags        destinations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Country ID"
// @Param       request body CreateCityRequest true "City name"
// @Success     201 {object} models.City "City created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Administrator privileges required"
// @Failure     404 {object} ErrorResponse "Country not found"
// @Failure     409 {object} ErrorResponse "Duplicate city"
// @Router      /countries/{id}/cities [post]
func (h *DestinationHandler) CreateCity(c *gin.Context) {
	countryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	city, err := h.destinationService.CreateCity(countryID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"city": city})
}

// GetCities lists the cities of a country
// @Summary     List cities
// @Description List the cities registered under a country, ordered by name
// @Tags        destinations
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Country ID"
// @Success     200 {array} models.City "Cities"
// @Failure     404 {object} ErrorResponse "Country not found"
// @Router      /countries/{id}/cities [get]
func (h *DestinationHandler) GetCities(c *gin.Context) {
	countryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cities, err := h.destinationService.GetCitiesByCountry(countryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cities": cities})
}
