package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxMode distinguishes tax-inclusive from tax-exclusive amounts.
type TaxMode string

const (
	TaxInclusive TaxMode = "INCLUSIVE"
	TaxExclusive TaxMode = "EXCLUSIVE"
)

// TaxCondition is a structured applicability condition on a tax rule. All
// conditions on a rule must pass for the rule to contribute; a failing
// condition gates the rule to zero rather than erroring.
type TaxCondition struct {
	MinAmount     *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount     *decimal.Decimal `json:"maxAmount,omitempty"`
	CustomerType  string           `json:"customerType,omitempty"` // empty matches any
	CountryCode   string           `json:"countryCode,omitempty"`  // empty matches any
	EffectiveFrom *time.Time       `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time       `json:"effectiveTo,omitempty"`
}

// TaxRule defines a single tax rate with optional structured conditions.
type TaxRule struct {
	TaxRuleID  string          `json:"taxRuleID"`
	CompanyID  string          `json:"companyID"`
	Name       string          `json:"name"`
	Rate       decimal.Decimal `json:"rate"` // fraction, e.g. 0.10 for 10%
	Conditions []TaxCondition  `json:"conditions,omitempty"`
	IsActive   bool            `json:"isActive"`
	AuditFields
}

// TaxPreset is a named bundle of tax rules a company can designate as its
// default when no explicit rule applies.
type TaxPreset struct {
	TaxPresetID string   `json:"taxPresetID"`
	CompanyID   string   `json:"companyID"`
	Name        string   `json:"name"`
	TaxRuleIDs  []string `json:"taxRuleIDs"`
	AuditFields
}

// TaxableLine is the input to tax calculation: a document line with its
// amount, discount and context used by structured conditions.
type TaxableLine struct {
	Amount       decimal.Decimal `json:"amount"`
	Discount     decimal.Decimal `json:"discount"`
	CustomerType string          `json:"customerType,omitempty"`
	CountryCode  string          `json:"countryCode,omitempty"`
	Date         time.Time       `json:"date"`
}

// TaxResult is the outcome of calculating tax for one line.
type TaxResult struct {
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	AppliedRules  []string        `json:"appliedRules"` // rule IDs that contributed
}
