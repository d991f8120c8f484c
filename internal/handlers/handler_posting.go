package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/rakibulmuhajir/haasib/internal/middleware"
)

// postingHandler turns business documents into journal entries.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newPostingHandler(postingService portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: postingService}
}

func (h *postingHandler) bindInvoice(c *gin.Context) (dto.CreateInvoiceRequest, bool) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Warn("Failed to bind JSON for document posting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return req, false
	}
	return req, true
}

// previewInvoice godoc
// @Summary Preview the journal lines an invoice would produce
// @Description Resolves bindings and tax without persisting anything
// @Tags posting
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 200 {object} dto.PostingPreviewResponse
// @Failure 422 {object} map[string]string "Unbound role or validation error"
// @Router /companies/{companyID}/invoices/preview [post]
func (h *postingHandler) previewInvoice(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	req, ok := h.bindInvoice(c)
	if !ok {
		return
	}

	preview, err := h.postingService.PreviewInvoice(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// postInvoice godoc
// @Summary Post an invoice to the ledger
// @Description Debits AR for the total, credits revenue and tax payable
// @Tags posting
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Invoice already posted"
// @Router /companies/{companyID}/invoices [post]
func (h *postingHandler) postInvoice(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	req, ok := h.bindInvoice(c)
	if !ok {
		return
	}

	entry, err := h.postingService.PostInvoice(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// postBill godoc
// @Summary Post a vendor bill to the ledger
// @Description The AP mirror of an invoice: credits AP, debits expense and tax receivable
// @Tags posting
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param bill body dto.CreateInvoiceRequest true "Bill"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Bill already posted"
// @Router /companies/{companyID}/bills [post]
func (h *postingHandler) postBill(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	req, ok := h.bindInvoice(c)
	if !ok {
		return
	}

	entry, err := h.postingService.PostBill(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// postCreditNote godoc
// @Summary Post a credit note to the ledger
// @Description An invoice with the debit and credit sides swapped
// @Tags posting
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param creditNote body dto.CreateInvoiceRequest true "Credit note"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Credit note already posted"
// @Router /companies/{companyID}/credit-notes [post]
func (h *postingHandler) postCreditNote(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	req, ok := h.bindInvoice(c)
	if !ok {
		return
	}

	entry, err := h.postingService.PostCreditNote(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *postingHandler) bindPayment(c *gin.Context) (dto.CreatePaymentRequest, bool) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Warn("Failed to bind JSON for payment posting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return req, false
	}
	return req, true
}

// previewPayment godoc
// @Summary Preview the journal lines a payment would produce
// @Tags posting
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param payment body dto.CreatePaymentRequest true "Payment"
// @Success 200 {object} dto.PostingPreviewResponse
// @Failure 422 {object} map[string]string "Unknown exchange rate or unbound role"
// @Router /companies/{companyID}/payments/preview [post]
func (h *postingHandler) previewPayment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	req, ok := h.bindPayment(c)
	if !ok {
		return
	}

	preview, err := h.postingService.PreviewPayment(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// postPayment godoc
// @Summary Post a customer payment against AR
// @Description Debits the cash or bank account for the method, credits AR control, converted to the company currency
// @Tags posting
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param payment body dto.CreatePaymentRequest true "Payment"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Payment already posted"
// @Router /companies/{companyID}/payments [post]
func (h *postingHandler) postPayment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	req, ok := h.bindPayment(c)
	if !ok {
		return
	}

	entry, err := h.postingService.PostPayment(c.Request.Context(), c.Param("companyID"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// registerPostingRoutes registers document posting routes under a company scope.
func registerPostingRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	group.POST("/invoices", h.postInvoice)
	group.POST("/invoices/preview", h.previewInvoice)
	group.POST("/bills", h.postBill)
	group.POST("/credit-notes", h.postCreditNote)
	group.POST("/payments", h.postPayment)
	group.POST("/payments/preview", h.previewPayment)
}
