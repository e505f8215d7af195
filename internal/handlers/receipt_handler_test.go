package handlers

import (
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/ownership"
)

func setupReceiptRouter(handler *ReceiptHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUser(1, false))
	auth.POST("/transactions/:id/receipts", handler.UploadReceipt)
	auth.GET("/transactions/:id/receipts", handler.GetReceipts)
	auth.GET("/receipts/:id/file", handler.DownloadReceipt)
	auth.DELETE("/receipts/:id", handler.DeleteReceipt)
	return r
}

func TestReceiptHandler_UploadReceipt(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var attachedTo uint
		handler := NewReceiptHandler(&mockReceiptService{
			attachReceiptFn: func(_ ownership.Caller, transactionID uint, file *multipart.FileHeader) (*models.Receipt, error) {
				attachedTo = transactionID
				return &models.Receipt{Base: models.Base{ID: 1}, TransactionID: transactionID, Filename: file.Filename}, nil
			},
		})
		r := setupReceiptRouter(handler)

		body, contentType := multipartTransaction(t, nil, "scan.pdf", []byte("%PDF-1.4 fake"))
		req := httptest.NewRequest("POST", "/transactions/8/receipts", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if attachedTo != 8 {
			t.Errorf("expected transaction 8, got %d", attachedTo)
		}
		result := parseJSON(t, rec)
		receipt := result["receipt"].(map[string]interface{})
		if receipt["filename"] != "scan.pdf" {
			t.Errorf("expected filename scan.pdf, got %v", receipt["filename"])
		}
	})

	t.Run("returns 400 without a file part", func(t *testing.T) {
		handler := NewReceiptHandler(&mockReceiptService{})
		r := setupReceiptRouter(handler)

		body, contentType := multipartTransaction(t, map[string]string{"note": "no file"}, "", nil)
		req := httptest.NewRequest("POST", "/transactions/8/receipts", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("maps an unsupported file type to 400", func(t *testing.T) {
		handler := NewReceiptHandler(&mockReceiptService{
			attachReceiptFn: func(ownership.Caller, uint, *multipart.FileHeader) (*models.Receipt, error) {
				return nil, apperrors.ErrUnsupportedFileType
			},
		})
		r := setupReceiptRouter(handler)

		body, contentType := multipartTransaction(t, nil, "virus.exe", []byte("MZ"))
		req := httptest.NewRequest("POST", "/transactions/8/receipts", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNSUPPORTED_FILE_TYPE")
	})
}

func TestReceiptHandler_GetReceipts(t *testing.T) {
	t.Run("lists the transaction's receipts", func(t *testing.T) {
		handler := NewReceiptHandler(&mockReceiptService{
			getReceiptsFn: func(_ ownership.Caller, transactionID uint) ([]models.Receipt, error) {
				return []models.Receipt{
					{Base: models.Base{ID: 1}, TransactionID: transactionID, Filename: "a.jpg"},
					{Base: models.Base{ID: 2}, TransactionID: transactionID, Filename: "b.png"},
				}, nil
			},
		})
		r := setupReceiptRouter(handler)

		rec := doRequest(r, "GET", "/transactions/8/receipts", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if len(result["receipts"].([]interface{})) != 2 {
			t.Error("expected 2 receipts")
		}
	})

	t.Run("returns 403 for a foreign transaction", func(t *testing.T) {
		handler := NewReceiptHandler(&mockReceiptService{
			getReceiptsFn: func(ownership.Caller, uint) ([]models.Receipt, error) {
				return nil, apperrors.ErrForbidden
			},
		})
		r := setupReceiptRouter(handler)

		rec := doRequest(r, "GET", "/transactions/8/receipts", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestReceiptHandler_DownloadReceipt(t *testing.T) {
	t.Run("streams the stored file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "stored-key.jpg")
		if err := os.WriteFile(path, []byte("image bytes"), 0o644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		handler := NewReceiptHandler(&mockReceiptService{
			getReceiptFileFn: func(_ ownership.Caller, receiptID uint) (*models.Receipt, string, error) {
				return &models.Receipt{Base: models.Base{ID: receiptID}, Filename: "lunch.jpg"}, path, nil
			},
		})
		r := setupReceiptRouter(handler)

		rec := doRequest(r, "GET", "/receipts/4/file", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "image bytes" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
		if cd := rec.Header().Get("Content-Disposition"); cd == "" {
			t.Error("expected a Content-Disposition header")
		}
	})

	t.Run("returns 404 for a missing receipt", func(t *testing.T) {
		handler := NewReceiptHandler(&mockReceiptService{
			getReceiptFileFn: func(ownership.Caller, uint) (*models.Receipt, string, error) {
				return nil, "", apperrors.ErrReceiptNotFound
			},
		})
		r := setupReceiptRouter(handler)

		rec := doRequest(r, "GET", "/receipts/99/file", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RECEIPT_NOT_FOUND")
	})
}

func TestReceiptHandler_DeleteReceipt(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		handler := NewReceiptHandler(&mockReceiptService{})
		r := setupReceiptRouter(handler)

		rec := doRequest(r, "DELETE", "/receipts/4", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
