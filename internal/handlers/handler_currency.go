package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
)

// currencyHandler serves currency reference data.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(currencyService portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: currencyService}
}

// listCurrencies godoc
// @Summary List known currencies
// @Tags currencies
// @Produce json
// @Success 200 {array} domain.Currency
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, currencies)
}

// getCurrency godoc
// @Summary Get a currency
// @Tags currencies
// @Produce json
// @Param currencyCode path string true "ISO 4217 code"
// @Success 200 {object} domain.Currency
// @Failure 404 {object} map[string]string "Currency not found"
// @Router /currencies/{currencyCode} [get]
func (h *currencyHandler) getCurrency(c *gin.Context) {
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), c.Param("currencyCode"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, currency)
}

// registerCurrencyRoutes registers currency reference routes.
func registerCurrencyRoutes(group *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := group.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:currencyCode", h.getCurrency)
	}
}
