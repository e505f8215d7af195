package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/ownership"
	"tripledger/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	accountService  AccountServicer
	categoryService CategoryServicer
	tripService     TripServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, categoryService CategoryServicer, tripService TripServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		accountService:  accountService,
		categoryService: categoryService,
		tripService:     tripService,
	}
}

// validateTransactionFields checks the amount invariant and that every
// referenced resource exists and belongs to the user.
func (s *transactionService) validateTransactionFields(userID uint, fields TransactionFields) error {
	if fields.Amount < 0 {
		return apperrors.ErrNegativeAmount
	}
	switch fields.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	default:
		return apperrors.ErrInvalidTransactionType
	}
	if fields.AccountID == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if fields.CategoryID == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}

	owner := ownership.Caller{UserID: userID}
	if _, err := s.accountService.GetAccountByID(owner, fields.AccountID); err != nil {
		return err
	}
	if _, err := s.categoryService.GetCategoryByID(fields.CategoryID); err != nil {
		return err
	}
	if fields.TripID != nil {
		if _, err := s.tripService.GetTripByID(owner, *fields.TripID); err != nil {
			return err
		}
	}
	return nil
}

// CreateTransaction records a new income or expense entry for a user
func (s *transactionService) CreateTransaction(userID uint, fields TransactionFields) (*models.Transaction, error) {
	if err := s.validateTransactionFields(userID, fields); err != nil {
		return nil, err
	}

	// Default occurred-at to now if not provided
	if fields.OccurredAt.IsZero() {
		fields.OccurredAt = time.Now()
	}

	transaction := &models.Transaction{
		UserID:     userID,
		AccountID:  fields.AccountID,
		CategoryID: fields.CategoryID,
		TripID:     fields.TripID,
		Type:       fields.Type,
		Amount:     fields.Amount,
		OccurredAt: fields.OccurredAt,
		Merchant:   fields.Merchant,
		Memo:       fields.Memo,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetTransactions retrieves a paginated, filtered list of transactions
// visible to the caller, most recent first. Administrators see every
// user's transactions.
func (s *transactionService) GetTransactions(caller ownership.Caller, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := ownership.Scope(s.db.Model(&models.Transaction{}), caller)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Account").Preload("Category").Preload("Trip").Preload("Receipts").
		Scopes(pagination.Paginate(page)).
		Order("occurred_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("occurred_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("occurred_at <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.TripID != nil {
		q = q.Where("trip_id = ?", *f.TripID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID, answering 403 for a
// foreign transaction.
func (s *transactionService) GetTransactionByID(caller ownership.Caller, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Account").Preload("Category").Preload("Trip").Preload("Receipts").
		First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := ownership.Authorize(caller, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

// UpdateTransaction replaces the mutable fields of a transaction
func (s *transactionService) UpdateTransaction(caller ownership.Caller, transactionID uint, fields TransactionFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(caller, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.validateTransactionFields(transaction.UserID, fields); err != nil {
		return nil, err
	}

	if fields.OccurredAt.IsZero() {
		fields.OccurredAt = transaction.OccurredAt
	}

	updates := map[string]interface{}{
		"account_id":  fields.AccountID,
		"category_id": fields.CategoryID,
		"trip_id":     fields.TripID,
		"type":        fields.Type,
		"amount":      fields.Amount,
		"occurred_at": fields.OccurredAt,
		"merchant":    fields.Merchant,
		"memo":        fields.Memo,
	}
	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTransactionByID(caller, transactionID)
}

// DeleteTransaction removes a transaction together with its receipts.
func (s *transactionService) DeleteTransaction(caller ownership.Caller, transactionID uint) error {
	transaction, err := s.GetTransactionByID(caller, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", transaction.ID).Delete(&models.Receipt{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
