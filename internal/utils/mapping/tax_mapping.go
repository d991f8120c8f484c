package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/models"
)

func ToModelTaxRule(d domain.TaxRule) (models.TaxRule, error) {
	conditions, err := json.Marshal(d.Conditions)
	if err != nil {
		return models.TaxRule{}, fmt.Errorf("failed to marshal tax conditions: %w", err)
	}
	return models.TaxRule{
		TaxRuleID:   d.TaxRuleID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Rate:        d.Rate,
		Conditions:  conditions,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

func ToDomainTaxRule(m models.TaxRule) (domain.TaxRule, error) {
	var conditions []domain.TaxCondition
	if len(m.Conditions) > 0 {
		if err := json.Unmarshal(m.Conditions, &conditions); err != nil {
			return domain.TaxRule{}, fmt.Errorf("failed to unmarshal tax conditions for rule %s: %w", m.TaxRuleID, err)
		}
	}
	return domain.TaxRule{
		TaxRuleID:   m.TaxRuleID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Rate:        m.Rate,
		Conditions:  conditions,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}

func ToModelTaxPreset(d domain.TaxPreset) (models.TaxPreset, error) {
	ruleIDs, err := json.Marshal(d.TaxRuleIDs)
	if err != nil {
		return models.TaxPreset{}, fmt.Errorf("failed to marshal preset rule IDs: %w", err)
	}
	return models.TaxPreset{
		TaxPresetID: d.TaxPresetID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		TaxRuleIDs:  ruleIDs,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

func ToDomainTaxPreset(m models.TaxPreset) (domain.TaxPreset, error) {
	var ruleIDs []string
	if len(m.TaxRuleIDs) > 0 {
		if err := json.Unmarshal(m.TaxRuleIDs, &ruleIDs); err != nil {
			return domain.TaxPreset{}, fmt.Errorf("failed to unmarshal preset rule IDs for preset %s: %w", m.TaxPresetID, err)
		}
	}
	return domain.TaxPreset{
		TaxPresetID: m.TaxPresetID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		TaxRuleIDs:  ruleIDs,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}
