package mapping

import (
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/models"
)

func ToModelLedgerAccount(d domain.LedgerAccount) models.LedgerAccount {
	return models.LedgerAccount{
		AccountID:     d.AccountID,
		CompanyID:     d.CompanyID,
		Code:          d.Code,
		Name:          d.Name,
		AccountType:   models.AccountType(d.AccountType),
		Subtype:       d.Subtype,
		NormalBalance: string(d.NormalBalance),
		CurrencyCode:  d.CurrencyCode,
		Description:   d.Description,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainLedgerAccount(m models.LedgerAccount) domain.LedgerAccount {
	return domain.LedgerAccount{
		AccountID:     m.AccountID,
		CompanyID:     m.CompanyID,
		Code:          m.Code,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		Subtype:       m.Subtype,
		NormalBalance: domain.NormalBalance(m.NormalBalance),
		CurrencyCode:  m.CurrencyCode,
		Description:   m.Description,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
