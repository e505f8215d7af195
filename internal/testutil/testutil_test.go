package testutil_test

import (
	"testing"

	"tripledger/internal/models"
	"tripledger/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "profiles", "accounts", "countries", "cities", "trips", "categories", "transactions", "receipts"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	admin := testutil.CreateTestAdmin(t, db)
	if !admin.IsAdmin {
		t.Error("admin fixture should have the admin flag set")
	}

	profile := testutil.CreateTestProfile(t, db, user.ID, models.AgeGroup20s, models.GenderFemale)
	if profile.AgeGroup != models.AgeGroup20s {
		t.Errorf("expected age group %s, got %s", models.AgeGroup20s, profile.AgeGroup)
	}

	account := testutil.CreateTestAccount(t, db, user.ID)
	if account.UserID != user.ID {
		t.Errorf("expected account owner %d, got %d", user.ID, account.UserID)
	}

	country := testutil.CreateTestCountry(t, db)
	city := testutil.CreateTestCity(t, db, country.ID)
	if city.CountryID != country.ID {
		t.Errorf("expected city in country %d, got %d", country.ID, city.CountryID)
	}

	trip := testutil.CreateTestTrip(t, db, user.ID, country.ID)
	if trip.EndDate == nil {
		t.Fatal("trip fixture should have an end date")
	}

	category := testutil.CreateTestCategory(t, db)
	tx := testutil.CreateTestTransaction(t, db, user.ID, account.ID, category.ID, models.TransactionTypeExpense, 1000)
	if tx.Amount != 1000 {
		t.Errorf("expected amount 1000, got %d", tx.Amount)
	}

	receipt := testutil.CreateTestReceipt(t, db, tx.ID)
	if receipt.TransactionID != tx.ID {
		t.Errorf("expected receipt on transaction %d, got %d", tx.ID, receipt.TransactionID)
	}
}
