package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"tripledger/internal/models"
	"tripledger/internal/services"
)

var _ services.StatsServicer = (*mockStatsService)(nil)

type mockStatsService struct {
	getOverviewFn func() (*services.ServiceOverview, error)
}

func (m *mockStatsService) GetOverview() (*services.ServiceOverview, error) {
	if m.getOverviewFn != nil {
		return m.getOverviewFn()
	}
	return &services.ServiceOverview{
		TopCountries:         []services.CountryExpense{},
		AgeGroupDestinations: []services.AgeGroupDestinations{},
	}, nil
}

func TestStatsHandler_GetOverview(t *testing.T) {
	t.Run("is reachable without authentication", func(t *testing.T) {
		handler := NewStatsHandler(&mockStatsService{
			getOverviewFn: func() (*services.ServiceOverview, error) {
				return &services.ServiceOverview{
					TotalUsers: 12,
					TotalTrips: 34,
					TotalSpent: 5600,
					TopCountries: []services.CountryExpense{
						{CountryName: "Japan", TotalAmount: 4000},
					},
					AgeGroupDestinations: []services.AgeGroupDestinations{
						{AgeGroup: models.AgeGroup20s, Destinations: []services.Destination{
							{CountryName: "Japan", CityName: "Tokyo", VisitCount: 5},
						}},
					},
				}, nil
			},
		})

		// No auth middleware on purpose, this endpoint is public
		r := gin.New()
		r.GET("/stats/overview", handler.GetOverview)

		rec := doRequest(r, "GET", "/stats/overview", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_users"] != float64(12) {
			t.Errorf("expected total_users 12, got %v", result["total_users"])
		}
		countries := result["top_countries"].([]interface{})
		if countries[0].(map[string]interface{})["country_name"] != "Japan" {
			t.Error("expected Japan as the top country")
		}
		groups := result["age_group_destinations"].([]interface{})
		group := groups[0].(map[string]interface{})
		if group["age_group"] != "20s" {
			t.Errorf("expected age group 20s, got %v", group["age_group"])
		}
	})

	t.Run("empty service reports zeroes", func(t *testing.T) {
		handler := NewStatsHandler(&mockStatsService{})
		r := gin.New()
		r.GET("/stats/overview", handler.GetOverview)

		rec := doRequest(r, "GET", "/stats/overview", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["total_users"] != float64(0) {
			t.Errorf("expected total_users 0, got %v", result["total_users"])
		}
	})
}
