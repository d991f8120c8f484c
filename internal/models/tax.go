package models

import (
	"github.com/shopspring/decimal"
)

// TaxRule is the DB shape of a tax rule row. Conditions are stored as JSONB.
type TaxRule struct {
	TaxRuleID  string          `db:"tax_rule_id"`
	CompanyID  string          `db:"company_id"`
	Name       string          `db:"name"`
	Rate       decimal.Decimal `db:"rate"`
	Conditions []byte          `db:"conditions"`
	IsActive   bool            `db:"is_active"`
	AuditFields
}

// TaxPreset is the DB shape of a tax preset row. Rule IDs are stored as JSONB.
type TaxPreset struct {
	TaxPresetID string `db:"tax_preset_id"`
	CompanyID   string `db:"company_id"`
	Name        string `db:"name"`
	TaxRuleIDs  []byte `db:"tax_rule_ids"`
	AuditFields
}
