package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies effective
// from a specific date. Lookup semantics are "latest rate with effective date
// on or before the target date".
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // always positive
	DateEffective    time.Time       `json:"dateEffective"`
	Source           string          `json:"source"` // e.g. "manual", "import"
	IsActive         bool            `json:"isActive"`
	AuditFields
}

// NormalizedRate is one quote from the external currency feed, normalized to
// the shape the core needs regardless of which upstream API produced it.
type NormalizedRate struct {
	CurrencyCode string          `json:"currencyCode"`
	Rate         decimal.Decimal `json:"rate"`
	Date         time.Time       `json:"date"`
}
