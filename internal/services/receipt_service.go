package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/logger"
	"tripledger/internal/models"
	"tripledger/internal/ownership"
	"tripledger/internal/uuid"
)

// maxReceiptSize caps uploads at 5 MiB.
const maxReceiptSize = 5 << 20

var allowedReceiptExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// receiptService stores receipt files on local disk and tracks them in the
// database. Files are named by generated key so a hostile filename never
// reaches the filesystem.
type receiptService struct {
	db                 *gorm.DB
	dir                string
	transactionService TransactionServicer
}

// NewReceiptService creates a new ReceiptServicer writing files under dir.
func NewReceiptService(db *gorm.DB, dir string, transactionService TransactionServicer) ReceiptServicer {
	return &receiptService{db: db, dir: dir, transactionService: transactionService}
}

// AttachReceipt validates and stores an uploaded file for a transaction.
func (s *receiptService) AttachReceipt(caller ownership.Caller, transactionID uint, file *multipart.FileHeader) (*models.Receipt, error) {
	transaction, err := s.transactionService.GetTransactionByID(caller, transactionID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedReceiptExts[ext] {
		return nil, apperrors.ErrUnsupportedFileType
	}
	if file.Size > maxReceiptSize {
		return nil, apperrors.ErrFileTooLarge
	}

	key := uuid.New() + ext
	path := filepath.Join(s.dir, key)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.saveFile(file, path); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	receipt := &models.Receipt{
		TransactionID: transaction.ID,
		FileKey:       key,
		Filename:      filepath.Base(file.Filename),
		Size:          file.Size,
		UploadedAt:    time.Now(),
	}
	if err := s.db.Create(receipt).Error; err != nil {
		// Keep the database and the directory consistent.
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Get().Warnw("failed to remove orphaned receipt file", "path", path, "error", rmErr)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return receipt, nil
}

func (s *receiptService) saveFile(file *multipart.FileHeader, path string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	// The header size is client-supplied; enforce the cap on the actual bytes.
	n, err := io.Copy(dst, io.LimitReader(src, maxReceiptSize+1))
	if err != nil {
		return err
	}
	if n > maxReceiptSize {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("upload exceeds %d bytes", maxReceiptSize)
	}
	return nil
}

// GetReceipts lists the receipts attached to a transaction.
func (s *receiptService) GetReceipts(caller ownership.Caller, transactionID uint) ([]models.Receipt, error) {
	transaction, err := s.transactionService.GetTransactionByID(caller, transactionID)
	if err != nil {
		return nil, err
	}

	var receipts []models.Receipt
	if err := s.db.Where("transaction_id = ?", transaction.ID).
		Order("uploaded_at DESC").
		Find(&receipts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return receipts, nil
}

// GetReceiptFile resolves a receipt and the on-disk path of its file.
func (s *receiptService) GetReceiptFile(caller ownership.Caller, receiptID uint) (*models.Receipt, string, error) {
	receipt, err := s.getAuthorizedReceipt(caller, receiptID)
	if err != nil {
		return nil, "", err
	}

	path := filepath.Join(s.dir, receipt.FileKey)
	if _, err := os.Stat(path); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrReceiptNotFound, err)
	}
	return receipt, path, nil
}

// DeleteReceipt removes a receipt row and its file.
func (s *receiptService) DeleteReceipt(caller ownership.Caller, receiptID uint) error {
	receipt, err := s.getAuthorizedReceipt(caller, receiptID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(receipt).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	path := filepath.Join(s.dir, receipt.FileKey)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Get().Warnw("failed to remove receipt file", "path", path, "error", err)
	}
	return nil
}

// getAuthorizedReceipt loads a receipt and checks the caller owns the
// transaction it belongs to. Receipts inherit their transaction's owner.
func (s *receiptService) getAuthorizedReceipt(caller ownership.Caller, receiptID uint) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := s.db.First(&receipt, receiptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReceiptNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := s.transactionService.GetTransactionByID(caller, receipt.TransactionID); err != nil {
		return nil, err
	}
	return &receipt, nil
}
