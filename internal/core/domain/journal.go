package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// SourceType names the business document a journal entry was generated from.
type SourceType string

const (
	SourceInvoice    SourceType = "INVOICE"
	SourceBill       SourceType = "BILL"
	SourcePayment    SourceType = "PAYMENT"
	SourceCreditNote SourceType = "CREDIT_NOTE"
	SourceManual     SourceType = "MANUAL"
	SourceReversal   SourceType = "REVERSAL"
)

// EntryMetadata carries void/reversal linkage. Once an entry is posted these
// are the only fields that may still change (set once, on void).
type EntryMetadata struct {
	VoidReason        string     `json:"voidReason,omitempty"`
	VoidedBy          string     `json:"voidedBy,omitempty"`
	VoidedAt          *time.Time `json:"voidedAt,omitempty"`
	ReversalOfEntryID *string    `json:"reversalOfEntryID,omitempty"` // set on the reversing entry
	ReversedByEntryID *string    `json:"reversedByEntryID,omitempty"` // set on the voided original
}

// JournalEntry is an atomic, dated financial fact composed of balanced
// debit/credit lines. Once posted, its lines, amounts and date are immutable
// history; the only permitted transition is POSTED -> VOID, which creates a
// paired reversing entry rather than deleting anything.
type JournalEntry struct {
	EntryID      string        `json:"entryID"`
	CompanyID    string        `json:"companyID"`
	EntryDate    time.Time     `json:"entryDate"`
	Description  string        `json:"description"`
	Reference    string        `json:"reference"`
	CurrencyCode string        `json:"currencyCode"`
	Status       EntryStatus   `json:"status"`
	SourceType   SourceType    `json:"sourceType"`
	SourceID     string        `json:"sourceID"`
	Metadata     EntryMetadata `json:"metadata"`
	PostedAt     *time.Time    `json:"postedAt,omitempty"`
	PostedBy     string        `json:"postedBy,omitempty"`
	Lines        []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single debit or credit against one account. Exactly one of
// DebitAmount/CreditAmount is non-zero, and both are non-negative.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	DebitAmount decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	LineNumber  int             `json:"lineNumber"` // entry-scoped, monotonic from 1
	Description string          `json:"description"`
	AuditFields
}

// IsDebit reports whether the line is a debit line.
func (l JournalLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// AccountBalance is the computed balance of an account as of a date.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
	// BalanceType is the side label of the reported balance. It flips when the
	// signed balance is negative relative to the account's normal balance; the
	// underlying number keeps its sign.
	BalanceType NormalBalance `json:"balanceType"`
	AsOf        *time.Time    `json:"asOf,omitempty"`
}
