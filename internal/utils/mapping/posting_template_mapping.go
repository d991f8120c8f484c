package mapping

import (
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/models"
)

func ToModelPostingTemplate(d domain.PostingTemplate) models.PostingTemplate {
	return models.PostingTemplate{
		TemplateID:    d.TemplateID,
		CompanyID:     d.CompanyID,
		Name:          d.Name,
		DocType:       string(d.DocType),
		Version:       d.Version,
		EffectiveFrom: d.EffectiveFrom,
		EffectiveTo:   d.EffectiveTo,
		IsDefault:     d.IsDefault,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainPostingTemplate(m models.PostingTemplate) domain.PostingTemplate {
	return domain.PostingTemplate{
		TemplateID:    m.TemplateID,
		CompanyID:     m.CompanyID,
		Name:          m.Name,
		DocType:       domain.DocType(m.DocType),
		Version:       m.Version,
		EffectiveFrom: m.EffectiveFrom,
		EffectiveTo:   m.EffectiveTo,
		IsDefault:     m.IsDefault,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelPostingTemplateLine(d domain.PostingTemplateLine) models.PostingTemplateLine {
	return models.PostingTemplateLine{
		TemplateLineID: d.TemplateLineID,
		TemplateID:     d.TemplateID,
		Role:           string(d.Role),
		AccountID:      d.AccountID,
		Precedence:     d.Precedence,
		Required:       d.Required,
	}
}

func ToDomainPostingTemplateLine(m models.PostingTemplateLine) domain.PostingTemplateLine {
	return domain.PostingTemplateLine{
		TemplateLineID: m.TemplateLineID,
		TemplateID:     m.TemplateID,
		Role:           domain.AccountRole(m.Role),
		AccountID:      m.AccountID,
		Precedence:     m.Precedence,
		Required:       m.Required,
	}
}
