package services

import (
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
)

// monthlyWindow is how far back the monthly expense series reaches.
const monthlyWindow = 180 * 24 * time.Hour

// dashboardService computes per-user aggregates over transactions.
// Every query filters on user_id directly: the dashboard returns derived
// rows rather than owned objects, so the ownership invariant is enforced
// in the predicate instead of through the guard.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// GetMonthlyStats returns the expense totals per calendar month over the
// trailing 180 days before ref, oldest month first. Months are bucketed
// in ref's location.
func (s *dashboardService) GetMonthlyStats(userID uint, ref time.Time) ([]MonthlyStat, error) {
	since := ref.Add(-monthlyWindow)

	var rows []struct {
		Amount     int64
		OccurredAt time.Time
	}
	err := s.db.Model(&models.Transaction{}).
		Select("amount, occurred_at").
		Where("user_id = ? AND type = ? AND occurred_at >= ?",
			userID, models.TransactionTypeExpense, since).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Bucket by month in Go: month truncation in SQL is not portable
	// between the postgres deployment and the sqlite test databases.
	loc := ref.Location()
	buckets := make(map[time.Time]*MonthlyStat)
	for _, row := range rows {
		at := row.OccurredAt.In(loc)
		month := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, loc)
		stat, ok := buckets[month]
		if !ok {
			stat = &MonthlyStat{Month: month}
			buckets[month] = stat
		}
		stat.TotalAmount += row.Amount
		stat.Count++
	}

	stats := make([]MonthlyStat, 0, len(buckets))
	for _, stat := range buckets {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Month.Before(stats[j].Month) })
	return stats, nil
}

// GetCategoryStats returns the user's all-time expense totals per category,
// largest first, capped at ten rows, with each row's share of the returned
// total. An empty result or a zero grand total yields zero percentages.
func (s *dashboardService) GetCategoryStats(userID uint) ([]CategoryStat, error) {
	var stats []CategoryStat
	err := s.db.Model(&models.Transaction{}).
		Select("categories.name AS category_name, SUM(transactions.amount) AS total_amount, COUNT(transactions.id) AS count").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ?", userID, models.TransactionTypeExpense).
		Group("categories.name").
		Order("total_amount DESC").
		Limit(10).
		Scan(&stats).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var grandTotal int64
	for i := range stats {
		grandTotal += stats[i].TotalAmount
	}
	// Guard the division: a user whose expenses are all zero-amount
	// still gets rows, just with zero percentages.
	if grandTotal > 0 {
		for i := range stats {
			stats[i].Percentage = float64(stats[i].TotalAmount) / float64(grandTotal) * 100
		}
	}

	if stats == nil {
		stats = []CategoryStat{}
	}
	return stats, nil
}

// GetTripStats returns the user's five most recent trips by start date,
// each with its total expense. Trips without transactions report zero.
func (s *dashboardService) GetTripStats(userID uint) ([]TripStat, error) {
	var stats []TripStat
	err := s.db.Model(&models.Trip{}).
		Select(
			"trips.id AS trip_id, trips.name AS trip_name, trips.start_date, "+
				"COALESCE(SUM(CASE WHEN transactions.type = ? THEN transactions.amount ELSE 0 END), 0) AS total_expense",
			models.TransactionTypeExpense).
		Joins("LEFT JOIN transactions ON transactions.trip_id = trips.id").
		Where("trips.user_id = ?", userID).
		Group("trips.id").
		Order("trips.start_date DESC").
		Limit(5).
		Scan(&stats).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if stats == nil {
		stats = []TripStat{}
	}
	return stats, nil
}

// GetCurrentMonthSummary aggregates all transactions from the first
// instant of ref's calendar month onwards.
func (s *dashboardService) GetCurrentMonthSummary(userID uint, ref time.Time) (*MonthSummary, error) {
	startOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())

	var summary MonthSummary
	err := s.db.Model(&models.Transaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_expense, "+
				"COUNT(id) AS transaction_count",
			models.TransactionTypeIncome, models.TransactionTypeExpense).
		Where("user_id = ? AND occurred_at >= ?", userID, startOfMonth).
		Scan(&summary).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary.NetAmount = summary.TotalIncome - summary.TotalExpense
	return &summary, nil
}

// GetDashboard assembles all dashboard sections. The four aggregates and
// the recent-transaction list are independent reads, so they run
// concurrently on the connection pool.
func (s *dashboardService) GetDashboard(userID uint, ref time.Time) (*DashboardData, error) {
	data := &DashboardData{}

	var g errgroup.Group
	g.Go(func() error {
		stats, err := s.GetMonthlyStats(userID, ref)
		if err != nil {
			return err
		}
		data.MonthlyStats = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.GetCategoryStats(userID)
		if err != nil {
			return err
		}
		data.CategoryStats = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.GetTripStats(userID)
		if err != nil {
			return err
		}
		data.TripStats = stats
		return nil
	})
	g.Go(func() error {
		summary, err := s.GetCurrentMonthSummary(userID, ref)
		if err != nil {
			return err
		}
		data.CurrentMonth = *summary
		return nil
	})
	g.Go(func() error {
		var recent []models.Transaction
		err := s.db.Preload("Account").Preload("Category").Preload("Trip").
			Where("user_id = ?", userID).
			Order("occurred_at DESC").
			Limit(10).
			Find(&recent).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		data.RecentTransactions = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if data.RecentTransactions == nil {
		data.RecentTransactions = []models.Transaction{}
	}
	return data, nil
}
