package services

import (
	"testing"

	"tripledger/internal/models"
	"tripledger/internal/testutil"
)

func TestGetOverview(t *testing.T) {
	t.Run("empty_service", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStatsService(db)

		overview, err := svc.GetOverview()
		testutil.AssertNoError(t, err)

		if overview.TotalUsers != 0 || overview.TotalTrips != 0 || overview.TotalSpent != 0 {
			t.Errorf("expected all-zero overview, got %+v", overview)
		}
		if len(overview.TopCountries) != 0 {
			t.Errorf("expected no top countries, got %d", len(overview.TopCountries))
		}
	})

	t.Run("counts_and_totals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStatsService(db)

		user := testutil.CreateTestUser(t, db)
		inactive := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, db.Model(inactive).Update("is_active", false).Error)

		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db)
		country := testutil.CreateTestCountry(t, db)
		testutil.CreateTestTrip(t, db, user.ID, country.ID)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, category.ID, models.TransactionTypeExpense, 1500)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, category.ID, models.TransactionTypeIncome, 9000)

		overview, err := svc.GetOverview()
		testutil.AssertNoError(t, err)

		if overview.TotalUsers != 1 {
			t.Errorf("expected 1 active user, got %d", overview.TotalUsers)
		}
		if overview.TotalTrips != 1 {
			t.Errorf("expected 1 trip, got %d", overview.TotalTrips)
		}
		if overview.TotalSpent != 1500 {
			t.Errorf("expected total spent 1500, got %d", overview.TotalSpent)
		}
	})

	t.Run("top_countries_ranked_by_trip_spending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStatsService(db)

		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db)

		cheap := testutil.CreateTestCountry(t, db)
		pricey := testutil.CreateTestCountry(t, db)
		cheapTrip := testutil.CreateTestTrip(t, db, user.ID, cheap.ID)
		priceyTrip := testutil.CreateTestTrip(t, db, user.ID, pricey.ID)

		low := testutil.CreateTestTransaction(t, db, user.ID, account.ID, category.ID, models.TransactionTypeExpense, 100)
		high := testutil.CreateTestTransaction(t, db, user.ID, account.ID, category.ID, models.TransactionTypeExpense, 9000)
		testutil.AssertNoError(t, db.Model(low).Update("trip_id", cheapTrip.ID).Error)
		testutil.AssertNoError(t, db.Model(high).Update("trip_id", priceyTrip.ID).Error)
		// Spending outside any trip does not count towards countries.
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, category.ID, models.TransactionTypeExpense, 50000)

		overview, err := svc.GetOverview()
		testutil.AssertNoError(t, err)

		if len(overview.TopCountries) != 2 {
			t.Fatalf("expected 2 countries, got %d", len(overview.TopCountries))
		}
		if overview.TopCountries[0].CountryName != pricey.Name {
			t.Errorf("expected %q first, got %q", pricey.Name, overview.TopCountries[0].CountryName)
		}
		if overview.TopCountries[0].TotalAmount != 9000 {
			t.Errorf("expected 9000, got %d", overview.TopCountries[0].TotalAmount)
		}
	})

	t.Run("destinations_grouped_by_age_bracket", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStatsService(db)

		twenties := testutil.CreateTestUser(t, db)
		thirties := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, twenties.ID, models.AgeGroup20s, models.GenderFemale)
		testutil.CreateTestProfile(t, db, thirties.ID, models.AgeGroup30s, models.GenderMale)

		country := testutil.CreateTestCountry(t, db)
		testutil.CreateTestTrip(t, db, twenties.ID, country.ID)
		testutil.CreateTestTrip(t, db, twenties.ID, country.ID)
		testutil.CreateTestTrip(t, db, thirties.ID, country.ID)

		overview, err := svc.GetOverview()
		testutil.AssertNoError(t, err)

		if len(overview.AgeGroupDestinations) != 2 {
			t.Fatalf("expected 2 age brackets, got %d", len(overview.AgeGroupDestinations))
		}
		// Brackets come back in display order, 20s before 30s.
		first := overview.AgeGroupDestinations[0]
		if first.AgeGroup != models.AgeGroup20s {
			t.Errorf("expected 20s first, got %s", first.AgeGroup)
		}
		if len(first.Destinations) != 1 || first.Destinations[0].VisitCount != 2 {
			t.Errorf("expected one destination with 2 visits, got %+v", first.Destinations)
		}
	})
}
