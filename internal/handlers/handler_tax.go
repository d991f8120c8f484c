package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/rakibulmuhajir/haasib/internal/middleware"
)

// taxHandler handles tax rule management and calculation.
type taxHandler struct {
	taxService portssvc.TaxSvcFacade
}

func newTaxHandler(taxService portssvc.TaxSvcFacade) *taxHandler {
	return &taxHandler{taxService: taxService}
}

// createRule godoc
// @Summary Create a tax rule
// @Tags tax
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param rule body dto.CreateTaxRuleRequest true "Rule details"
// @Success 201 {object} domain.TaxRule
// @Failure 422 {object} map[string]string "Validation error"
// @Router /companies/{companyID}/tax-rules [post]
func (h *taxHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	var req dto.CreateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	rule, err := h.taxService.CreateTaxRule(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Tax rule created", slog.String("tax_rule_id", rule.TaxRuleID))
	c.JSON(http.StatusCreated, rule)
}

// listRules godoc
// @Summary List the company's tax rules
// @Tags tax
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {array} domain.TaxRule
// @Router /companies/{companyID}/tax-rules [get]
func (h *taxHandler) listRules(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	rules, err := h.taxService.ListTaxRules(c.Request.Context(), companyID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

// calculate godoc
// @Summary Calculate tax for one line
// @Description Evaluates the given rules (or the company default preset) against the line
// @Tags tax
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param line body dto.CalculateTaxRequest true "Line and context"
// @Success 200 {object} dto.TaxResultResponse
// @Failure 404 {object} map[string]string "Unknown rule ID"
// @Router /companies/{companyID}/tax/calculate [post]
func (h *taxHandler) calculate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	var req dto.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for calculate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}
	line := domain.TaxableLine{
		Amount:       req.Amount,
		Discount:     req.Discount,
		CustomerType: req.CustomerType,
		CountryCode:  req.CountryCode,
		Date:         date,
	}

	result, err := h.taxService.CalculateLineTax(c.Request.Context(), companyID, line, domain.TaxMode(req.Mode), req.TaxRuleIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxResultResponse(result))
}

// registerTaxRoutes registers tax routes under a company scope.
func registerTaxRoutes(group *gin.RouterGroup, taxService portssvc.TaxSvcFacade) {
	h := newTaxHandler(taxService)

	group.POST("/tax-rules", h.createRule)
	group.GET("/tax-rules", h.listRules)
	group.POST("/tax/calculate", h.calculate)
}
