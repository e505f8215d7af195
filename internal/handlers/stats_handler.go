package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripledger/internal/services"
)

// StatsHandler serves the public landing-page statistics.
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetOverview returns the anonymous service-wide statistics
// @Summary     Service overview
// @Description Public landing-page numbers: user and trip counts, total spend, top countries, popular destinations per age group
// @Tags        stats
// @Produce     json
// @Success     200 {object} services.ServiceOverview "Overview"
// @Router      /stats/overview [get]
func (h *StatsHandler) GetOverview(c *gin.Context) {
	overview, err := h.statsService.GetOverview()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
