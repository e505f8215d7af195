package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/services"
)

// ReceiptHandler handles receipt uploads and downloads.
type ReceiptHandler struct {
	receiptService services.ReceiptServicer
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService services.ReceiptServicer) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// UploadReceipt attaches a receipt file to a transaction
// @Summary     Upload a receipt
// @Description Attach a jpg, jpeg, png or pdf file (max 5 MiB) to a transaction
// @Tags        receipts
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       receipt formData file true "Receipt file"
// @Success     201 {object} models.Receipt "Receipt stored"
// @Failure     400 {object} ErrorResponse "Unsupported file type or size"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id}/receipts [post]
func (h *ReceiptHandler) UploadReceipt(c *gin.Context) {
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

	file, err := c.FormFile("receipt")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt file is required"))
		return
	}

	receipt, err := h.receiptService.AttachReceipt(caller, transactionID, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"receipt": receipt})
}

// GetReceipts lists the receipts of a transaction
// @Summary     List receipts
// @Description List the receipts attached to a transaction
// @Tags        receipts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {array} models.Receipt "Receipts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id}/receipts [get]
func (h *ReceiptHandler) GetReceipts(c *gin.Context) {
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

	receipts, err := h.receiptService.GetReceipts(caller, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receipts": receipts})
}

// DownloadReceipt streams the receipt file
// @Summary     Download a receipt file
// @Description Download the stored file of a receipt
// @Tags        receipts
// @Produce     octet-stream
// @Security    BearerAuth
// @Param       id path int true "Receipt ID"
// @Success     200 {file} binary "Receipt file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /receipts/{id}/file [get]
func (h *ReceiptHandler) DownloadReceipt(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	receiptID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	receipt, path, err := h.receiptService.GetReceiptFile(caller, receiptID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.FileAttachment(path, receipt.Filename)
}

// DeleteReceipt removes a receipt and its file
// @Summary     Delete a receipt
// @Description Delete a receipt row together with its stored file
// @Tags        receipts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Receipt ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /receipts/{id} [delete]
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	receiptID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.receiptService.DeleteReceipt(caller, receiptID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
