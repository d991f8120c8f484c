package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/rakibulmuhajir/haasib/internal/middleware"
)

// journalHandler handles journal entry requests.
type journalHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newJournalHandler(ledgerService portssvc.LedgerSvcFacade) *journalHandler {
	return &journalHandler{ledgerService: ledgerService}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates balance and accounts, then persists the entry and its lines as DRAFT
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entry body dto.CreateJournalEntryRequest true "Entry and lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 422 {object} map[string]string "Unbalanced entry or invalid account"
// @Router /companies/{companyID}/journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	entry, err := h.ledgerService.CreateJournalEntry(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /companies/{companyID}/journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	entry, err := h.ledgerService.GetJournalEntryByID(c.Request.Context(), companyID, entryID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Pages through the company's entries newest first
// @Tags journal-entries
// @Produce json
// @Param companyID path string true "Company ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Router /companies/{companyID}/journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	page, err := h.ledgerService.ListJournalEntries(c.Request.Context(), companyID, userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// postEntry godoc
// @Summary Post a draft entry
// @Description Transitions DRAFT to POSTED after re-validating balance
// @Tags journal-entries
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Duplicate source document"
// @Failure 422 {object} map[string]string "Entry is not postable"
// @Router /companies/{companyID}/journal-entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	entry, err := h.ledgerService.PostJournalEntry(c.Request.Context(), companyID, entryID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// voidEntry godoc
// @Summary Void a posted entry
// @Description Creates the posted reversal and flips the original to VOID atomically
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entryID path string true "Entry ID"
// @Param void body dto.VoidJournalEntryRequest true "Void reason"
// @Success 200 {object} dto.JournalEntryResponse "The reversing entry"
// @Failure 422 {object} map[string]string "Entry is not posted"
// @Router /companies/{companyID}/journal-entries/{entryID}/void [post]
func (h *journalHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	var req dto.VoidJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for voidEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	reversal, err := h.ledgerService.VoidJournalEntry(c.Request.Context(), companyID, entryID, req.Reason, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Journal entry voided", slog.String("entry_id", entryID), slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(reversal))
}

// deleteEntry godoc
// @Summary Delete a draft entry
// @Description Drafts only; posted and void entries are never deletable
// @Tags journal-entries
// @Param companyID path string true "Company ID"
// @Param entryID path string true "Entry ID"
// @Success 204 "Deleted"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /companies/{companyID}/journal-entries/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	if err := h.ledgerService.DeleteDraftEntry(c.Request.Context(), companyID, entryID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// registerJournalRoutes registers journal entry routes under a company scope.
func registerJournalRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newJournalHandler(ledgerService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/void", h.voidEntry)
	}
}
