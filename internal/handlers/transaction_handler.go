package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/pagination"
	"tripledger/internal/services"
)

// TransactionHandler handles transaction requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	receiptService     services.ReceiptServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, receiptService services.ReceiptServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, receiptService: receiptService}
}

// TransactionRequest represents the payload for creating or updating a
// transaction. It binds from JSON or, when a receipt rides along, from a
// multipart form.
type TransactionRequest struct {
	AccountID  uint                   `json:"account_id" form:"account_id" binding:"required"`
	CategoryID uint                   `json:"category_id" form:"category_id" binding:"required"`
	TripID     *uint                  `json:"trip_id" form:"trip_id"`
	Type       models.TransactionType `json:"type" form:"type" binding:"required,transaction_type"`
	Amount     int64                  `json:"amount" form:"amount" binding:"gte=0"`
	OccurredAt string                 `json:"occurred_at" form:"occurred_at"`
	Merchant   string                 `json:"merchant" form:"merchant" binding:"max=200"`
	Memo       string                 `json:"memo" form:"memo" binding:"max=1000"`
}

func (r *TransactionRequest) fields() (services.TransactionFields, error) {
	var occurredAt time.Time
	if r.OccurredAt != "" {
		parsed, err := parseDate(r.OccurredAt)
		if err != nil {
			return services.TransactionFields{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid occurred_at format")
		}
		occurredAt = parsed
	}

	return services.TransactionFields{
		AccountID:  r.AccountID,
		CategoryID: r.CategoryID,
		TripID:     r.TripID,
		Type:       r.Type,
		Amount:     r.Amount,
		OccurredAt: occurredAt,
		Merchant:   r.Merchant,
		Memo:       r.Memo,
	}, nil
}

// bindTransactionRequest binds the request from JSON or a multipart form.
// The second return value is the optional receipt file from the form.
func bindTransactionRequest(c *gin.Context) (*TransactionRequest, *multipart.FileHeader, error) {
	var req TransactionRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		file, err := c.FormFile("receipt")
		if err != nil {
			// The receipt part is optional
			return &req, nil, nil
		}
		return &req, file, nil
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return &req, nil, nil
}

// parseTransactionFilter reads the optional list filters from the query string.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format")
		}
		filter.FromDate = &parsed
	}
	if v := c.Query("to_date"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format")
		}
		filter.ToDate = &parsed
	}
	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		if t != models.TransactionTypeIncome && t != models.TransactionTypeExpense {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type filter")
		}
		filter.Type = &t
	}
	for param, dst := range map[string]**uint{
		"category_id": &filter.CategoryID,
		"account_id":  &filter.AccountID,
		"trip_id":     &filter.TripID,
	} {
		if v := c.Query(param); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
			}
			parsed := uint(id)
			*dst = &parsed
		}
	}
	return filter, nil
}

// CreateTransaction records a new income or expense entry
// @Summary     Create a transaction
// @Description Record an income or expense entry, optionally with a receipt file in a multipart form
// @Tags        transactions
// @Accept      json
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Referenced resource is not yours"
// @Failure     404 {object} ErrorResponse "Referenced resource not found"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	req, receiptFile, err := bindTransactionRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fields, err := req.fields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(caller.UserID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if receiptFile != nil {
		if _, err := h.receiptService.AttachReceipt(caller, transaction.ID, receiptFile); err != nil {
			respondWithError(c, err)
			return
		}
		transaction, err = h.transactionService.GetTransactionByID(caller, transaction.ID)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions lists the caller's transactions
// @Summary     List transactions
// @Description List transactions with optional filters, most recent first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       from_date query string false "Earliest date (inclusive)"
// @Param       to_date query string false "Latest date (inclusive)"
// @Param       type query string false "income or expense"
// @Param       category_id query int false "Category filter"
// @Param       account_id query int false "Account filter"
// @Param       trip_id query int false "Trip filter"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
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

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetTransactions(caller, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction returns one transaction
// @Summary     Get a transaction
// @Description Get a transaction by ID with its account, category, trip and receipts
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(caller, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction replaces the transaction's mutable fields
// @Summary     Update a transaction
// @Description Replace the transaction's fields, optionally attaching another receipt
// @Tags        transactions
// @Accept      json
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	req, receiptFile, err := bindTransactionRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fields, err := req.fields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(caller, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if receiptFile != nil {
		if _, err := h.receiptService.AttachReceipt(caller, transaction.ID, receiptFile); err != nil {
			respondWithError(c, err)
			return
		}
		transaction, err = h.transactionService.GetTransactionByID(caller, transaction.ID)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a transaction and its receipts
// @Summary     Delete a transaction
// @Description Delete a transaction together with its receipts
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(caller, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
