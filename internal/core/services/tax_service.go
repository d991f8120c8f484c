package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/shopspring/decimal"
)

type taxSvc struct {
	BaseService
	taxRepo     portsrepo.TaxRepositoryFacade
	companyRepo portsrepo.CompanyRepositoryFacade
}

var _ portssvc.TaxSvcFacade = (*taxSvc)(nil)

// NewTaxService creates a new tax service instance.
func NewTaxService(
	taxRepo portsrepo.TaxRepositoryFacade,
	companyRepo portsrepo.CompanyRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
) *taxSvc {
	return &taxSvc{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		taxRepo:     taxRepo,
		companyRepo: companyRepo,
	}
}

// CalculateLineTax computes the tax for one document line. The discount comes
// off the amount first, then every applicable rule's rate is summed into one
// combined rate. Rules never compound on each other's output.
func (s *taxSvc) CalculateLineTax(ctx context.Context, companyID string, line domain.TaxableLine, mode domain.TaxMode, taxRuleIDs []string) (domain.TaxResult, error) {
	base := line.Amount.Sub(line.Discount)
	if base.Sign() < 0 {
		return domain.TaxResult{}, fmt.Errorf("%w: discount exceeds line amount", apperrors.ErrValidation)
	}

	rules, err := s.resolveRules(ctx, companyID, taxRuleIDs)
	if err != nil {
		return domain.TaxResult{}, err
	}

	combinedRate := decimal.Zero
	applied := make([]string, 0, len(rules))
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		if !conditionsPass(rule.Conditions, base, line) {
			continue
		}
		combinedRate = combinedRate.Add(rule.Rate)
		applied = append(applied, rule.TaxRuleID)
	}

	result := domain.TaxResult{AppliedRules: applied}
	switch mode {
	case domain.TaxInclusive:
		result.TaxAmount = s.ReverseCalculateInclusive(base, combinedRate)
		result.TaxableAmount = base.Sub(result.TaxAmount)
	default:
		result.TaxableAmount = base
		result.TaxAmount = base.Mul(combinedRate)
	}
	return result, nil
}

// ReverseCalculateInclusive extracts the tax portion baked into a
// tax-inclusive total: total - total / (1 + rate).
func (s *taxSvc) ReverseCalculateInclusive(total decimal.Decimal, combinedRate decimal.Decimal) decimal.Decimal {
	if combinedRate.IsZero() {
		return decimal.Zero
	}
	divisor := decimal.NewFromInt(1).Add(combinedRate)
	return total.Sub(total.Div(divisor))
}

func (s *taxSvc) CreateTaxRule(ctx context.Context, companyID string, req dto.CreateTaxRuleRequest, userID string) (*domain.TaxRule, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}
	if req.Rate.Sign() < 0 {
		return nil, fmt.Errorf("%w: tax rate cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	rule := domain.TaxRule{
		TaxRuleID:  uuid.NewString(),
		CompanyID:  companyID,
		Name:       req.Name,
		Rate:       req.Rate,
		Conditions: req.Conditions,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.taxRepo.SaveTaxRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save tax rule", slog.String("company_id", companyID))
		return nil, err
	}
	return &rule, nil
}

func (s *taxSvc) ListTaxRules(ctx context.Context, companyID string, userID string) ([]domain.TaxRule, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.taxRepo.ListTaxRulesByCompany(ctx, companyID, false)
}

// resolveRules loads the explicitly requested rules, or the company's default
// preset when none were named. No preset means no tax, which is fine.
func (s *taxSvc) resolveRules(ctx context.Context, companyID string, taxRuleIDs []string) ([]domain.TaxRule, error) {
	if len(taxRuleIDs) > 0 {
		rules, err := s.taxRepo.FindTaxRulesByIDs(ctx, companyID, taxRuleIDs)
		if err != nil {
			return nil, err
		}
		if len(rules) != len(taxRuleIDs) {
			return nil, fmt.Errorf("%w: one or more tax rules not found", apperrors.ErrNotFound)
		}
		return rules, nil
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.DefaultTaxPresetID == nil {
		return nil, nil
	}
	preset, err := s.taxRepo.FindTaxPresetByID(ctx, *company.DefaultTaxPresetID)
	if err != nil {
		return nil, err
	}
	return s.taxRepo.FindTaxRulesByIDs(ctx, companyID, preset.TaxRuleIDs)
}

// conditionsPass reports whether every condition on a rule matches the line.
// Empty or nil condition fields match anything.
func conditionsPass(conditions []domain.TaxCondition, base decimal.Decimal, line domain.TaxableLine) bool {
	for _, c := range conditions {
		if c.MinAmount != nil && base.LessThan(*c.MinAmount) {
			return false
		}
		if c.MaxAmount != nil && base.GreaterThan(*c.MaxAmount) {
			return false
		}
		if c.CustomerType != "" && c.CustomerType != line.CustomerType {
			return false
		}
		if c.CountryCode != "" && c.CountryCode != line.CountryCode {
			return false
		}
		if c.EffectiveFrom != nil && line.Date.Before(*c.EffectiveFrom) {
			return false
		}
		if c.EffectiveTo != nil && line.Date.After(*c.EffectiveTo) {
			return false
		}
	}
	return true
}
