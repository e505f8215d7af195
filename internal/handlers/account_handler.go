package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/masking"
	"tripledger/internal/models"
	"tripledger/internal/pagination"
	"tripledger/internal/services"
)

// AccountHandler handles bank account requests.
type AccountHandler struct {
	accountService     services.AccountServicer
	transactionService services.TransactionServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, transactionService services.TransactionServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, transactionService: transactionService}
}

// CreateAccountRequest represents the request payload for creating an account
type CreateAccountRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=100"`
	BankName      string `json:"bank_name" binding:"required,min=1,max=100"`
	AccountNumber string `json:"account_number" binding:"max=50"`
}

// UpdateAccountRequest represents the request payload for updating an account.
type UpdateAccountRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=100"`
	BankName      *string `json:"bank_name" binding:"omitempty,min=1,max=100"`
	AccountNumber *string `json:"account_number" binding:"omitempty,max=50"`
	IsActive      *bool   `json:"is_active"`
}

// AccountResponse represents an account in the response. The account number
// is always masked; the raw value never leaves the service.
type AccountResponse struct {
	ID            uint   `json:"id"`
	UserID        uint   `json:"user_id"`
	Name          string `json:"name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	IsActive      bool   `json:"is_active"`
}

func accountResponse(account *models.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		UserID:        account.UserID,
		Name:          account.Name,
		BankName:      account.BankName,
		AccountNumber: masking.MaskAccountNumber(account.AccountNumber),
		IsActive:      account.IsActive,
	}
}

func accountResponses(accounts []models.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = accountResponse(&accounts[i])
	}
	return out
}

// CreateAccount handles the creation of a new bank account
// @Summary     Create an account
// @Description Register a bank account for the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} AccountResponse "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(caller.UserID, req.Name, req.BankName, req.AccountNumber)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": accountResponse(account)})
}

// GetAccounts lists the caller's active accounts
// @Summary     List accounts
// @Description List active accounts visible to the caller, paginated
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[AccountResponse] "Accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /accounts [get]
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.accountService.GetAccounts(caller, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	masked := pagination.NewPageResponse(accountResponses(result.Data), result.Page, result.PageSize, result.TotalItems)
	c.JSON(http.StatusOK, masked)
}

// GetAccount returns one account with its recent transactions
// @Summary     Get an account
// @Description Get an account by ID with its 20 most recent transactions
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Success     200 {object} AccountResponse "Account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(caller, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recent, err := h.transactionService.GetTransactions(caller,
		pagination.PageRequest{Page: 1, PageSize: 20},
		services.TransactionFilter{AccountID: &account.ID})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":             accountResponse(account),
		"recent_transactions": recent.Data,
	})
}

// UpdateAccount updates the fields provided in the payload
// @Summary     Update an account
// @Description Update account fields; omitted fields are left unchanged
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} AccountResponse "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(caller, accountID, req.Name, req.BankName, req.AccountNumber, req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": accountResponse(account)})
}

// DeleteAccount removes an account and everything recorded against it
// @Summary     Delete an account
// @Description Delete an account together with its transactions and receipts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(caller, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
