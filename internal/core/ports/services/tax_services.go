package services

import (
	"context"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/shopspring/decimal"
)

// TaxSvcFacade computes per-line tax amounts from applicable rules.
type TaxSvcFacade interface {
	// CalculateLineTax evaluates the given rules (or, when ruleIDs is empty,
	// the company's default preset) against the line. Inactive rules and
	// rules with failing conditions contribute zero. Rules compose
	// additively, never compounded.
	CalculateLineTax(ctx context.Context, companyID string, line domain.TaxableLine, mode domain.TaxMode, taxRuleIDs []string) (domain.TaxResult, error)
	// ReverseCalculateInclusive extracts the tax portion from a
	// tax-inclusive total using a single combined rate.
	ReverseCalculateInclusive(total decimal.Decimal, combinedRate decimal.Decimal) decimal.Decimal
	CreateTaxRule(ctx context.Context, companyID string, req dto.CreateTaxRuleRequest, userID string) (*domain.TaxRule, error)
	ListTaxRules(ctx context.Context, companyID string, userID string) ([]domain.TaxRule, error)
}
