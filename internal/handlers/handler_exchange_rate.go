package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/rakibulmuhajir/haasib/internal/middleware"
)

// exchangeRateHandler handles exchange rate maintenance and conversion.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(exchangeRateService portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: exchangeRateService}
}

// upsertRate godoc
// @Summary Insert or overwrite an exchange rate
// @Description Keyed by (from, to, effective date); re-import overwrites
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param rate body dto.UpsertExchangeRateRequest true "Rate details"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 422 {object} map[string]string "Validation error"
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) upsertRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpsertExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for upsertRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	rate, err := h.exchangeRateService.UpsertExchangeRate(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		DateEffective:    rate.DateEffective,
		Source:           rate.Source,
	})
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Uses the custom rate when supplied, otherwise the resolved rate as of the date
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertCurrencyRequest true "Conversion request"
// @Success 200 {object} dto.ConversionResponse
// @Failure 422 {object} map[string]string "Unknown exchange rate"
// @Router /exchange-rates/convert [post]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	asOf := time.Now().UTC()
	if req.Date != nil {
		asOf = *req.Date
	}

	converted, err := h.exchangeRateService.ConvertCurrency(c.Request.Context(), req.Amount, req.FromCurrencyCode, req.ToCurrencyCode, asOf, req.CustomRate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rateUsed, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(), req.FromCurrencyCode, req.ToCurrencyCode, asOf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if req.CustomRate != nil {
		rateUsed = *req.CustomRate
	}

	c.JSON(http.StatusOK, dto.ConversionResponse{
		Amount:           converted,
		CurrencyCode:     req.ToCurrencyCode,
		RateUsed:         rateUsed,
		OriginalAmount:   req.Amount,
		OriginalCurrency: req.FromCurrencyCode,
	})
}

// importRates godoc
// @Summary Import rates from the external feed
// @Description Pulls the configured feed for the base currency and upserts a rate row per quote
// @Tags exchange-rates
// @Produce json
// @Param base query string true "Base currency code"
// @Success 200 {object} map[string]int "Number of imported rates"
// @Failure 500 {object} map[string]string "Feed unavailable"
// @Router /exchange-rates/import [post]
func (h *exchangeRateHandler) importRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	base := c.Query("base")
	if len(base) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base must be a 3-letter currency code"})
		return
	}

	imported, err := h.exchangeRateService.ImportRates(c.Request.Context(), base, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Rates imported", slog.String("base", base), slog.Int("count", imported))
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

// registerExchangeRateRoutes registers exchange rate routes.
func registerExchangeRateRoutes(group *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	rates := group.Group("/exchange-rates")
	{
		rates.POST("", h.upsertRate)
		rates.POST("/convert", h.convert)
		rates.POST("/import", h.importRates)
	}
}
