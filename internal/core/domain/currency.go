package domain

// Currency represents a supported currency.
// DecimalPlaces drives both rounding of converted amounts and the tolerance
// used when checking that a journal entry balances (10^-DecimalPlaces).
type Currency struct {
	CurrencyCode  string `json:"currencyCode"` // ISO 4217, e.g. "USD"
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	DecimalPlaces int32  `json:"decimalPlaces"`
	AuditFields
}
