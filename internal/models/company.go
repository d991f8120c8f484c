package models

// Company is the DB shape of a tenant row.
type Company struct {
	CompanyID           string  `db:"company_id"`
	Name                string  `db:"name"`
	DefaultCurrencyCode string  `db:"default_currency_code"`
	DefaultTaxPresetID  *string `db:"default_tax_preset_id"`
	AuditFields
}

// UserCompany is the DB shape of a user-company membership row.
type UserCompany struct {
	UserID    string `db:"user_id"`
	CompanyID string `db:"company_id"`
	Role      string `db:"role"`
	AuditFields
}

// User is the DB shape of a user row.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	AuditFields
}
