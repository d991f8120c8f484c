package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the DB shape of a journal entry row. Void/reversal linkage
// lives in dedicated nullable columns rather than a JSON blob so the partial
// unique index on (company_id, source_type, source_id) can stay simple.
// SourceID is NULL for entries without a source document; storing '' would
// make every manual entry in a company collide on that index.
type JournalEntry struct {
	EntryID           string     `db:"entry_id"`
	CompanyID         string     `db:"company_id"`
	EntryDate         time.Time  `db:"entry_date"`
	Description       string     `db:"description"`
	Reference         string     `db:"reference"`
	CurrencyCode      string     `db:"currency_code"`
	Status            string     `db:"status"`
	SourceType        string     `db:"source_type"`
	SourceID          *string    `db:"source_id"`
	VoidReason        *string    `db:"void_reason"`
	VoidedBy          *string    `db:"voided_by"`
	VoidedAt          *time.Time `db:"voided_at"`
	ReversalOfEntryID *string    `db:"reversal_of_entry_id"`
	ReversedByEntryID *string    `db:"reversed_by_entry_id"`
	PostedAt          *time.Time `db:"posted_at"`
	PostedBy          *string    `db:"posted_by"`
	AuditFields
}

// JournalLine is the DB shape of a journal line row.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	LineNumber   int             `db:"line_number"`
	Description  string          `db:"description"`
	AuditFields
}
