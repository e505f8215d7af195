package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripledger/internal/services"
)

// DashboardHandler serves the per-user aggregate views.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns all dashboard sections in one response
// @Summary     Get the dashboard
// @Description Monthly expense series, category breakdown, trip totals, current month summary and recent transactions
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardData "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.dashboardService.GetDashboard(caller.UserID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetMonthlyStats returns the trailing half-year expense series
// @Summary     Monthly expense series
// @Description Expense totals per calendar month over the trailing 180 days
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.MonthlyStat "Monthly buckets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard/monthly [get]
func (h *DashboardHandler) GetMonthlyStats(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.dashboardService.GetMonthlyStats(caller.UserID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"monthly_stats": stats})
}

// GetCategoryStats returns the all-time category breakdown
// @Summary     Category breakdown
// @Description Expense totals and percentages per category, top ten
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.CategoryStat "Category rows"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard/categories [get]
func (h *DashboardHandler) GetCategoryStats(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.dashboardService.GetCategoryStats(caller.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category_stats": stats})
}

// GetTripStats returns expense totals for the latest trips
// @Summary     Trip totals
// @Description Total expense for the five most recent trips
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.TripStat "Trip rows"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard/trips [get]
func (h *DashboardHandler) GetTripStats(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.dashboardService.GetTripStats(caller.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip_stats": stats})
}

// GetCurrentMonthSummary returns the running totals for this month
// @Summary     Current month summary
// @Description Income, expense, net amount and count for the current calendar month
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.MonthSummary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard/current-month [get]
func (h *DashboardHandler) GetCurrentMonthSummary(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.GetCurrentMonthSummary(caller.UserID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"current_month": summary})
}
