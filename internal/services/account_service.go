package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/ownership"
	"tripledger/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new bank account for a user
func (s *accountService) CreateAccount(userID uint, name, bankName, accountNumber string) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if bankName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank name is required")
	}

	account := &models.Account{
		UserID:        userID,
		Name:          name,
		BankName:      bankName,
		AccountNumber: accountNumber,
		IsActive:      true,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// GetAccounts retrieves a paginated list of active accounts visible to the
// caller. Administrators see every user's accounts.
func (s *accountService) GetAccounts(caller ownership.Caller, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := ownership.Scope(s.db.Model(&models.Account{}), caller).Where("is_active = ?", true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID. The row is fetched first and
// ownership checked afterwards so that a foreign account answers 403, not 404.
func (s *accountService) GetAccountByID(caller ownership.Caller, accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := ownership.Authorize(caller, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount updates the fields that were provided
func (s *accountService) UpdateAccount(caller ownership.Caller, accountID uint, name, bankName, accountNumber *string, isActive *bool) (*models.Account, error) {
	account, err := s.GetAccountByID(caller, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if bankName != nil && *bankName != "" {
		updates["bank_name"] = *bankName
	}
	if accountNumber != nil {
		updates["account_number"] = *accountNumber
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteAccount removes an account and, via the cascade on the foreign key,
// every transaction recorded against it.
func (s *accountService) DeleteAccount(caller ownership.Caller, accountID uint) error {
	account, err := s.GetAccountByID(caller, accountID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Dependent rows are removed explicitly; the SQL-level cascade only
		// exists on the postgres schema, not on test databases.
		if err := tx.Where("transaction_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Model(&models.Transaction{}).Select("id").Where("account_id = ?", account.ID),
		).Delete(&models.Receipt{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
