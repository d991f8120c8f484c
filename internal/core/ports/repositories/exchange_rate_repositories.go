package repositories

import (
	"context"
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
)

// ExchangeRateRepositoryFacade defines persistence operations for exchange rates.
type ExchangeRateRepositoryFacade interface {
	// UpsertExchangeRate inserts or overwrites the rate keyed by
	// (from, to, effective date). Re-running an import for the same date
	// replaces rather than duplicates.
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
	// FindLatestRate returns the most recent active rate for the pair with
	// effective date on or before asOf, or apperrors.ErrNotFound.
	FindLatestRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error)
}

// CurrencyRepositoryFacade defines persistence operations for currencies.
type CurrencyRepositoryFacade interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
