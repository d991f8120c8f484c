package mapping

import (
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/models"
)

func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:           d.EntryID,
		CompanyID:         d.CompanyID,
		EntryDate:         d.EntryDate,
		Description:       d.Description,
		Reference:         d.Reference,
		CurrencyCode:      d.CurrencyCode,
		Status:            string(d.Status),
		SourceType:        string(d.SourceType),
		VoidedAt:          d.Metadata.VoidedAt,
		ReversalOfEntryID: d.Metadata.ReversalOfEntryID,
		ReversedByEntryID: d.Metadata.ReversedByEntryID,
		PostedAt:          d.PostedAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
	// NULL, not '', so entries without a source document stay out of the
	// partial unique index on (company_id, source_type, source_id).
	if d.SourceID != "" {
		m.SourceID = &d.SourceID
	}
	if d.Metadata.VoidReason != "" {
		m.VoidReason = &d.Metadata.VoidReason
	}
	if d.Metadata.VoidedBy != "" {
		m.VoidedBy = &d.Metadata.VoidedBy
	}
	if d.PostedBy != "" {
		m.PostedBy = &d.PostedBy
	}
	return m
}

func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:      m.EntryID,
		CompanyID:    m.CompanyID,
		EntryDate:    m.EntryDate,
		Description:  m.Description,
		Reference:    m.Reference,
		CurrencyCode: m.CurrencyCode,
		Status:       domain.EntryStatus(m.Status),
		SourceType:   domain.SourceType(m.SourceType),
		Metadata: domain.EntryMetadata{
			VoidedAt:          m.VoidedAt,
			ReversalOfEntryID: m.ReversalOfEntryID,
			ReversedByEntryID: m.ReversedByEntryID,
		},
		PostedAt:    m.PostedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.SourceID != nil {
		d.SourceID = *m.SourceID
	}
	if m.VoidReason != nil {
		d.Metadata.VoidReason = *m.VoidReason
	}
	if m.VoidedBy != nil {
		d.Metadata.VoidedBy = *m.VoidedBy
	}
	if m.PostedBy != nil {
		d.PostedBy = *m.PostedBy
	}
	return d
}

func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		LineNumber:   d.LineNumber,
		Description:  d.Description,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		LineNumber:   m.LineNumber,
		Description:  m.Description,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainJournalLine(m)
	}
	return out
}
