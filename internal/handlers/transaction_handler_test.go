package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/ownership"
	"tripledger/internal/pagination"
	"tripledger/internal/services"
)

var _ services.ReceiptServicer = (*mockReceiptService)(nil)

type mockReceiptService struct {
	attachReceiptFn  func(caller ownership.Caller, transactionID uint, file *multipart.FileHeader) (*models.Receipt, error)
	getReceiptsFn    func(caller ownership.Caller, transactionID uint) ([]models.Receipt, error)
	getReceiptFileFn func(caller ownership.Caller, receiptID uint) (*models.Receipt, string, error)
	deleteReceiptFn  func(caller ownership.Caller, receiptID uint) error
}

func (m *mockReceiptService) AttachReceipt(caller ownership.Caller, transactionID uint, file *multipart.FileHeader) (*models.Receipt, error) {
	if m.attachReceiptFn != nil {
		return m.attachReceiptFn(caller, transactionID, file)
	}
	return &models.Receipt{Base: models.Base{ID: 1}, TransactionID: transactionID, Filename: file.Filename}, nil
}

func (m *mockReceiptService) GetReceipts(caller ownership.Caller, transactionID uint) ([]models.Receipt, error) {
	if m.getReceiptsFn != nil {
		return m.getReceiptsFn(caller, transactionID)
	}
	return []models.Receipt{}, nil
}

func (m *mockReceiptService) GetReceiptFile(caller ownership.Caller, receiptID uint) (*models.Receipt, string, error) {
	if m.getReceiptFileFn != nil {
		return m.getReceiptFileFn(caller, receiptID)
	}
	return &models.Receipt{Base: models.Base{ID: receiptID}}, "", nil
}

func (m *mockReceiptService) DeleteReceipt(caller ownership.Caller, receiptID uint) error {
	if m.deleteReceiptFn != nil {
		return m.deleteReceiptFn(caller, receiptID)
	}
	return nil
}

func setupTransactionRouter(txSvc services.TransactionServicer, receiptSvc services.ReceiptServicer) *gin.Engine {
	handler := NewTransactionHandler(txSvc, receiptSvc)
	r := gin.New()
	auth := r.Group("", injectUser(1, false))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/:id", handler.GetTransaction)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

// multipartTransaction builds a multipart form with the transaction fields
// and an attached receipt part.
func multipartTransaction(t *testing.T, fields map[string]string, receiptName string, receiptContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field %s: %v", k, err)
		}
	}
	if receiptName != "" {
		part, err := writer.CreateFormFile("receipt", receiptName)
		if err != nil {
			t.Fatalf("failed to create receipt part: %v", err)
		}
		if _, err := part.Write(receiptContent); err != nil {
			t.Fatalf("failed to write receipt content: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 for a JSON payload", func(t *testing.T) {
		var gotFields services.TransactionFields
		r := setupTransactionRouter(&mockTransactionService{
			createTransactionFn: func(userID uint, fields services.TransactionFields) (*models.Transaction, error) {
				gotFields = fields
				return &models.Transaction{Base: models.Base{ID: 1}, UserID: userID, Type: fields.Type, Amount: fields.Amount}, nil
			},
		}, &mockReceiptService{})

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":2,"category_id":3,"type":"expense","amount":4500,"merchant":"Ramen shop","occurred_at":"2026-08-20"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFields.Amount != 4500 {
			t.Errorf("expected amount 4500, got %d", gotFields.Amount)
		}
		if gotFields.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense, got %s", gotFields.Type)
		}
		if gotFields.Merchant != "Ramen shop" {
			t.Errorf("expected merchant Ramen shop, got %q", gotFields.Merchant)
		}
	})

	t.Run("returns 400 for an unknown type", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{}, &mockReceiptService{})

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":2,"category_id":3,"type":"transfer","amount":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 for a negative amount", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{}, &mockReceiptService{})

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":2,"category_id":3,"type":"expense","amount":-100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for a malformed occurred_at", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{}, &mockReceiptService{})

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":2,"category_id":3,"type":"expense","amount":100,"occurred_at":"20/08/2026"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("multipart form attaches the receipt", func(t *testing.T) {
		var attachedTo uint
		var attachedName string
		r := setupTransactionRouter(&mockTransactionService{
			createTransactionFn: func(userID uint, fields services.TransactionFields) (*models.Transaction, error) {
				return &models.Transaction{Base: models.Base{ID: 11}, UserID: userID, Type: fields.Type, Amount: fields.Amount}, nil
			},
		}, &mockReceiptService{
			attachReceiptFn: func(_ ownership.Caller, transactionID uint, file *multipart.FileHeader) (*models.Receipt, error) {
				attachedTo = transactionID
				attachedName = file.Filename
				return &models.Receipt{Base: models.Base{ID: 1}, TransactionID: transactionID, Filename: file.Filename}, nil
			},
		})

		body, contentType := multipartTransaction(t, map[string]string{
			"account_id":  "2",
			"category_id": "3",
			"type":        "expense",
			"amount":      "4500",
		}, "lunch.jpg", []byte("fake image bytes"))

		req := httptest.NewRequest("POST", "/transactions", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if attachedTo != 11 {
			t.Errorf("expected receipt attached to transaction 11, got %d", attachedTo)
		}
		if attachedName != "lunch.jpg" {
			t.Errorf("expected filename lunch.jpg, got %q", attachedName)
		}
	})

	t.Run("multipart form without a receipt still succeeds", func(t *testing.T) {
		attached := false
		r := setupTransactionRouter(&mockTransactionService{}, &mockReceiptService{
			attachReceiptFn: func(ownership.Caller, uint, *multipart.FileHeader) (*models.Receipt, error) {
				attached = true
				return nil, nil
			},
		})

		body, contentType := multipartTransaction(t, map[string]string{
			"account_id":  "2",
			"category_id": "3",
			"type":        "income",
			"amount":      "100",
		}, "", nil)

		req := httptest.NewRequest("POST", "/transactions", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if attached {
			t.Error("receipt service should not be called without a file")
		}
	})

	t.Run("returns 403 for a foreign account", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{
			createTransactionFn: func(uint, services.TransactionFields) (*models.Transaction, error) {
				return nil, apperrors.ErrForbidden
			},
		}, &mockReceiptService{})

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":2,"category_id":3,"type":"expense","amount":100}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("parses the filter query", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		r := setupTransactionRouter(&mockTransactionService{
			getTransactionsFn: func(_ ownership.Caller, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}, &mockReceiptService{})

		rec := doRequest(r, "GET",
			"/transactions?type=expense&from_date=2026-08-01&to_date=2026-08-31&category_id=3&trip_id=7", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense filter, got %v", gotFilter.Type)
		}
		if gotFilter.FromDate == nil || gotFilter.FromDate.Day() != 1 {
			t.Errorf("expected from_date Aug 1, got %v", gotFilter.FromDate)
		}
		if gotFilter.CategoryID == nil || *gotFilter.CategoryID != 3 {
			t.Errorf("expected category 3, got %v", gotFilter.CategoryID)
		}
		if gotFilter.TripID == nil || *gotFilter.TripID != 7 {
			t.Errorf("expected trip 7, got %v", gotFilter.TripID)
		}
	})

	t.Run("rejects an unknown type filter", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{}, &mockReceiptService{})

		rec := doRequest(r, "GET", "/transactions?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects a non-numeric account filter", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{}, &mockReceiptService{})

		rec := doRequest(r, "GET", "/transactions?account_id=abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{}, &mockReceiptService{})

		rec := doRequest(r, "DELETE", "/transactions/5", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("returns 404 for a missing transaction", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{
			deleteTransactionFn: func(ownership.Caller, uint) error {
				return apperrors.ErrTransactionNotFound
			},
		}, &mockReceiptService{})

		rec := doRequest(r, "DELETE", "/transactions/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}
