package services

import (
	"context"
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/shopspring/decimal"
)

// ExchangeRateSvcFacade resolves and maintains exchange rates.
type ExchangeRateSvcFacade interface {
	// GetExchangeRate resolves from->to as of a date: same currency is 1,
	// then direct rate, then inverted reverse rate, then the static fallback
	// table, then apperrors.ErrUnknownExchangeRate.
	GetExchangeRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, error)
	// ConvertCurrency applies customRate when given, otherwise the resolved
	// rate, and rounds to the target currency's decimal places. Same-currency
	// conversions return the amount untouched.
	ConvertCurrency(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, asOf time.Time, customRate *decimal.Decimal) (decimal.Decimal, error)
	UpsertExchangeRate(ctx context.Context, req dto.UpsertExchangeRateRequest, userID string) (*domain.ExchangeRate, error)
	// ImportRates pulls the external feed for the base currency and upserts a
	// rate row per quoted currency. Runs outside any ledger transaction.
	ImportRates(ctx context.Context, baseCurrency string, userID string) (int, error)
}

// RateSource is the external currency feed collaborator. Implementations
// return quotes relative to the requested base currency.
type RateSource interface {
	FetchRates(ctx context.Context, baseCurrency string) ([]domain.NormalizedRate, error)
}

// CurrencySvcFacade reads currency reference data.
type CurrencySvcFacade interface {
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
