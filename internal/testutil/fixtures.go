package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"tripledger/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       email,
		Password:    string(hash),
		DisplayName: fmt.Sprintf("Test User %d", nextID()),
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates an active administrator.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote test admin: %v", err)
	}
	user.IsAdmin = true
	return user
}

// CreateTestProfile creates a profile for the given user.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID uint, ageGroup models.AgeGroup, gender models.Gender) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		UserID:   userID,
		AgeGroup: ageGroup,
		Gender:   gender,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestAccount creates an active bank account with a unique number.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID uint) *models.Account {
	t.Helper()

	n := nextID()
	account := &models.Account{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Account %d", n),
		BankName:      "Test Bank",
		AccountNumber: fmt.Sprintf("110-%03d-%06d", n%1000, n),
		IsActive:      true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCountry creates a country with a unique name.
func CreateTestCountry(t *testing.T, db *gorm.DB) *models.Country {
	t.Helper()

	country := &models.Country{Name: fmt.Sprintf("Test Country %d", nextID())}
	if err := db.Create(country).Error; err != nil {
		t.Fatalf("failed to create test country: %v", err)
	}
	return country
}

// CreateTestCity creates a city under the given country.
func CreateTestCity(t *testing.T, db *gorm.DB, countryID uint) *models.City {
	t.Helper()

	city := &models.City{
		Name:      fmt.Sprintf("Test City %d", nextID()),
		CountryID: countryID,
	}
	if err := db.Create(city).Error; err != nil {
		t.Fatalf("failed to create test city: %v", err)
	}
	return city
}

// CreateTestTrip creates a one-week trip that started yesterday.
func CreateTestTrip(t *testing.T, db *gorm.DB, userID, countryID uint) *models.Trip {
	t.Helper()

	start := time.Now().AddDate(0, 0, -1)
	end := start.AddDate(0, 0, 6)
	trip := &models.Trip{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Trip %d", nextID()),
		CountryID: countryID,
		StartDate: start,
		EndDate:   &end,
	}
	if err := db.Create(trip).Error; err != nil {
		t.Fatalf("failed to create test trip: %v", err)
	}
	return trip
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{Name: fmt.Sprintf("Test Category %d", nextID())}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount
// (in minor currency units), dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID, categoryID uint, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, accountID, categoryID, txType, amount, time.Now())
}

// CreateTestTransactionAt creates a transaction dated at the given time.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID, accountID, categoryID uint, txType models.TransactionType, amount int64, occurredAt time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		OccurredAt: occurredAt,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestReceipt creates a receipt row for the given transaction. No file
// is written; tests that need the file go through the receipt service.
func CreateTestReceipt(t *testing.T, db *gorm.DB, transactionID uint) *models.Receipt {
	t.Helper()

	n := nextID()
	receipt := &models.Receipt{
		TransactionID: transactionID,
		FileKey:       fmt.Sprintf("test-key-%d.jpg", n),
		Filename:      fmt.Sprintf("receipt%d.jpg", n),
		Size:          1024,
		UploadedAt:    time.Now(),
	}
	if err := db.Create(receipt).Error; err != nil {
		t.Fatalf("failed to create test receipt: %v", err)
	}
	return receipt
}
