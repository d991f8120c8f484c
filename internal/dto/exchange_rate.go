package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertExchangeRateRequest inserts or overwrites a rate for
// (from, to, effective date).
type UpsertExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
	Source           string          `json:"source"`
}

// ConvertCurrencyRequest converts an amount between currencies as of a date.
type ConvertCurrencyRequest struct {
	Amount           decimal.Decimal  `json:"amount" binding:"required"`
	FromCurrencyCode string           `json:"fromCurrencyCode" binding:"required,len=3"`
	ToCurrencyCode   string           `json:"toCurrencyCode" binding:"required,len=3"`
	Date             *time.Time       `json:"date"`
	CustomRate       *decimal.Decimal `json:"customRate"`
}

// ConversionResponse is the result of a currency conversion.
type ConversionResponse struct {
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	RateUsed         decimal.Decimal `json:"rateUsed"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	OriginalCurrency string          `json:"originalCurrency"`
}

// ExchangeRateResponse is the API shape of a stored exchange rate.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	Source           string          `json:"source,omitempty"`
}
