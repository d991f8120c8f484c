package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the DB shape of an exchange rate row.
type ExchangeRate struct {
	ExchangeRateID   string          `db:"exchange_rate_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	DateEffective    time.Time       `db:"date_effective"`
	Source           string          `db:"source"`
	IsActive         bool            `db:"is_active"`
	AuditFields
}

// Currency is the DB shape of a currency row.
type Currency struct {
	CurrencyCode  string `db:"currency_code"`
	Symbol        string `db:"symbol"`
	Name          string `db:"name"`
	DecimalPlaces int32  `db:"decimal_places"`
	AuditFields
}
