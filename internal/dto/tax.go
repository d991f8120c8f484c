package dto

import (
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTaxRuleRequest creates a tax rule with optional structured conditions.
type CreateTaxRuleRequest struct {
	Name       string                `json:"name" binding:"required"`
	Rate       decimal.Decimal       `json:"rate" binding:"required"`
	Conditions []domain.TaxCondition `json:"conditions"`
}

// CalculateTaxRequest computes tax for one document line.
type CalculateTaxRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Discount     decimal.Decimal `json:"discount"`
	Mode         string          `json:"mode" binding:"required,oneof=INCLUSIVE EXCLUSIVE"`
	TaxRuleIDs   []string        `json:"taxRuleIDs"`
	CustomerType string          `json:"customerType"`
	CountryCode  string          `json:"countryCode"`
	Date         *time.Time      `json:"date"`
}

// TaxResultResponse is the API shape of a tax calculation.
type TaxResultResponse struct {
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	AppliedRules  []string        `json:"appliedRules"`
}

// ToTaxResultResponse converts a domain tax result to its API shape.
func ToTaxResultResponse(r domain.TaxResult) TaxResultResponse {
	return TaxResultResponse{
		TaxableAmount: r.TaxableAmount,
		TaxAmount:     r.TaxAmount,
		AppliedRules:  r.AppliedRules,
	}
}
