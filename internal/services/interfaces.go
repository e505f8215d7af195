package services

import (
	"mime/multipart"
	"time"

	"tripledger/internal/models"
	"tripledger/internal/ownership"
	"tripledger/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string, ageGroup models.AgeGroup, gender models.Gender) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	RecordLogin(userID uint) error
	GetProfile(userID uint) (*models.Profile, error)
	UpdateProfile(userID uint, ageGroup *models.AgeGroup, gender *models.Gender) (*models.Profile, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID uint, name, bankName, accountNumber string) (*models.Account, error)
	GetAccounts(caller ownership.Caller, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(caller ownership.Caller, accountID uint) (*models.Account, error)
	UpdateAccount(caller ownership.Caller, accountID uint, name, bankName, accountNumber *string, isActive *bool) (*models.Account, error)
	DeleteAccount(caller ownership.Caller, accountID uint) error
}

// TripFields carries the mutable attributes of a trip.
type TripFields struct {
	Name      string
	CountryID uint
	CityID    *uint
	StartDate time.Time
	EndDate   *time.Time
	Memo      string
}

// TripSummary augments a trip with its income/expense totals.
type TripSummary struct {
	Trip         *models.Trip `json:"trip"`
	TotalExpense int64        `json:"total_expense"`
	TotalIncome  int64        `json:"total_income"`
	NetAmount    int64        `json:"net_amount"`
	DurationDays int          `json:"duration_days"`
}

// TripServicer defines the contract for trip-related business logic.
type TripServicer interface {
	CreateTrip(userID uint, fields TripFields) (*models.Trip, error)
	GetTrips(caller ownership.Caller, page pagination.PageRequest) (*pagination.PageResponse[models.Trip], error)
	GetTripByID(caller ownership.Caller, tripID uint) (*models.Trip, error)
	GetTripSummary(caller ownership.Caller, tripID uint) (*TripSummary, error)
	UpdateTrip(caller ownership.Caller, tripID uint, fields TripFields) (*models.Trip, error)
	DeleteTrip(caller ownership.Caller, tripID uint) error
}

// DestinationServicer manages the shared country/city reference data.
type DestinationServicer interface {
	CreateCountry(name string) (*models.Country, error)
	CreateCity(countryID uint, name string) (*models.City, error)
	GetCountries() ([]models.Country, error)
	GetCitiesByCountry(countryID uint) ([]models.City, error)
}

// CategoryServicer manages the shared transaction categories.
type CategoryServicer interface {
	CreateCategory(name, description string) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	GetCategoryByID(categoryID uint) (*models.Category, error)
	UpdateCategory(categoryID uint, name, description string) (*models.Category, error)
	DeleteCategory(categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
	AccountID  *uint
	TripID     *uint
}

// TransactionFields carries the mutable attributes of a transaction.
type TransactionFields struct {
	AccountID  uint
	CategoryID uint
	TripID     *uint
	Type       models.TransactionType
	Amount     int64
	OccurredAt time.Time
	Merchant   string
	Memo       string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, fields TransactionFields) (*models.Transaction, error)
	GetTransactions(caller ownership.Caller, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(caller ownership.Caller, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(caller ownership.Caller, transactionID uint, fields TransactionFields) (*models.Transaction, error)
	DeleteTransaction(caller ownership.Caller, transactionID uint) error
}

// ReceiptServicer stores and retrieves receipt files for transactions.
type ReceiptServicer interface {
	AttachReceipt(caller ownership.Caller, transactionID uint, file *multipart.FileHeader) (*models.Receipt, error)
	GetReceipts(caller ownership.Caller, transactionID uint) ([]models.Receipt, error)
	GetReceiptFile(caller ownership.Caller, receiptID uint) (*models.Receipt, string, error)
	DeleteReceipt(caller ownership.Caller, receiptID uint) error
}

// MonthlyStat is one month's expense bucket in the trailing half-year series.
type MonthlyStat struct {
	Month       time.Time `json:"month"`
	TotalAmount int64     `json:"total_amount"`
	Count       int       `json:"count"`
}

// CategoryStat is one category's share of all-time expenses.
type CategoryStat struct {
	CategoryName string  `json:"category_name"`
	TotalAmount  int64   `json:"total_amount"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
}

// TripStat is one trip's total expense for the dashboard.
type TripStat struct {
	TripID       uint      `json:"trip_id"`
	TripName     string    `json:"trip_name"`
	StartDate    time.Time `json:"start_date"`
	TotalExpense int64     `json:"total_expense"`
}

// MonthSummary aggregates the current calendar month.
type MonthSummary struct {
	TotalIncome      int64 `json:"total_income"`
	TotalExpense     int64 `json:"total_expense"`
	NetAmount        int64 `json:"net_amount"`
	TransactionCount int64 `json:"transaction_count"`
}

// DashboardData bundles all dashboard sections for a single response.
type DashboardData struct {
	MonthlyStats       []MonthlyStat        `json:"monthly_stats"`
	CategoryStats      []CategoryStat       `json:"category_stats"`
	TripStats          []TripStat           `json:"trip_stats"`
	CurrentMonth       MonthSummary         `json:"current_month"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
}

// DashboardServicer computes per-user aggregate views over transactions.
// Every operation is scoped to the given user in its query predicate and
// is total: empty data yields zero-valued results, never an error.
type DashboardServicer interface {
	GetMonthlyStats(userID uint, ref time.Time) ([]MonthlyStat, error)
	GetCategoryStats(userID uint) ([]CategoryStat, error)
	GetTripStats(userID uint) ([]TripStat, error)
	GetCurrentMonthSummary(userID uint, ref time.Time) (*MonthSummary, error)
	GetDashboard(userID uint, ref time.Time) (*DashboardData, error)
}

// CountryExpense is one country's share of all recorded trip spending.
type CountryExpense struct {
	CountryName string `json:"country_name"`
	TotalAmount int64  `json:"total_amount"`
}

// Destination is a visited country/city pair with its visit count.
type Destination struct {
	CountryName string `json:"country_name"`
	CityName    string `json:"city_name,omitempty"`
	VisitCount  int    `json:"visit_count"`
}

// AgeGroupDestinations lists the most visited destinations for one age bracket.
type AgeGroupDestinations struct {
	AgeGroup     models.AgeGroup `json:"age_group"`
	Destinations []Destination   `json:"destinations"`
}

// ServiceOverview is the public landing-page summary across all users.
type ServiceOverview struct {
	TotalUsers           int64                  `json:"total_users"`
	TotalTrips           int64                  `json:"total_trips"`
	TotalSpent           int64                  `json:"total_spent"`
	TopCountries         []CountryExpense       `json:"top_countries"`
	AgeGroupDestinations []AgeGroupDestinations `json:"age_group_destinations"`
}

// StatsServicer computes the anonymous service-wide statistics.
type StatsServicer interface {
	GetOverview() (*ServiceOverview, error)
}
