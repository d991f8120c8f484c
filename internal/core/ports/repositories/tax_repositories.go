package repositories

import (
	"context"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
)

// TaxRepositoryFacade defines persistence operations for tax rules and presets.
type TaxRepositoryFacade interface {
	SaveTaxRule(ctx context.Context, rule domain.TaxRule) error
	FindTaxRuleByID(ctx context.Context, taxRuleID string) (*domain.TaxRule, error)
	FindTaxRulesByIDs(ctx context.Context, companyID string, taxRuleIDs []string) ([]domain.TaxRule, error)
	ListTaxRulesByCompany(ctx context.Context, companyID string, activeOnly bool) ([]domain.TaxRule, error)
	SaveTaxPreset(ctx context.Context, preset domain.TaxPreset) error
	FindTaxPresetByID(ctx context.Context, taxPresetID string) (*domain.TaxPreset, error)
}
