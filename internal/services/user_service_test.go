package services

import (
	"testing"

	"tripledger/internal/models"
	"tripledger/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("creates_user_with_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("traveler@example.com", "secret123", "Traveler", models.AgeGroup20s, models.GenderFemale)
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Profile == nil {
			t.Fatal("expected profile to be created with the user")
		}
		if user.Profile.AgeGroup != models.AgeGroup20s {
			t.Errorf("expected age group 20s, got %s", user.Profile.AgeGroup)
		}
		if !user.IsActive {
			t.Error("new users should be active")
		}
	})

	t.Run("lowercases_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Mixed.Case@Example.COM", "secret123", "", models.AgeGroup30s, models.GenderMale)
		testutil.AssertNoError(t, err)
		if user.Email != "mixed.case@example.com" {
			t.Errorf("expected lowercased email, got %q", user.Email)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dupe@example.com", "secret123", "", models.AgeGroup20s, models.GenderOther)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUPE@example.com", "different", "", models.AgeGroup30s, models.GenderMale)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "secret123", "", models.AgeGroup20s, models.GenderFemale)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("no-pass@example.com", "", "", models.AgeGroup20s, models.GenderFemale)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("hash@example.com", "secret123", "", models.AgeGroup40s, models.GenderFemale)
		testutil.AssertNoError(t, err)
		if user.Password == "secret123" {
			t.Error("password should not be stored in plaintext")
		}
		if !svc.VerifyPassword(user, "secret123") {
			t.Error("expected stored hash to verify against the original password")
		}
		if svc.VerifyPassword(user, "wrong") {
			t.Error("expected wrong password to fail verification")
		}
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		got, err := svc.GetUserByEmail(user.Email)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, got.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByEmail("missing@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("inactive_user_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, db.Model(user).Update("is_active", false).Error)

		_, err := svc.GetUserByEmail(user.Email)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestRecordLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.RecordLogin(user.ID))

	got, err := svc.GetUserByID(user.ID)
	testutil.AssertNoError(t, err)
	if got.LastLoginAt == nil {
		t.Error("expected last login time to be recorded")
	}
}

func TestUpdateProfile(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, user.ID, models.AgeGroup20s, models.GenderFemale)

		ageGroup := models.AgeGroup30s
		profile, err := svc.UpdateProfile(user.ID, &ageGroup, nil)
		testutil.AssertNoError(t, err)

		if profile.AgeGroup != models.AgeGroup30s {
			t.Errorf("expected age group 30s, got %s", profile.AgeGroup)
		}
		if profile.Gender != models.GenderFemale {
			t.Errorf("gender should be unchanged, got %s", profile.Gender)
		}
	})

	t.Run("missing_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		gender := models.GenderOther
		_, err := svc.UpdateProfile(user.ID, nil, &gender)
		testutil.AssertAppError(t, err, "PROFILE_NOT_FOUND")
	})
}
