package models

// AccountType mirrors domain.AccountType at the persistence layer.
type AccountType string

// LedgerAccount is the DB shape of a chart-of-accounts row.
type LedgerAccount struct {
	AccountID     string      `db:"account_id"`
	CompanyID     string      `db:"company_id"`
	Code          string      `db:"code"`
	Name          string      `db:"name"`
	AccountType   AccountType `db:"account_type"`
	Subtype       string      `db:"subtype"`
	NormalBalance string      `db:"normal_balance"`
	CurrencyCode  string      `db:"currency_code"`
	Description   string      `db:"description"`
	IsActive      bool        `db:"is_active"`
	AuditFields
}
