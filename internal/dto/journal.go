package dto

import (
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one line of a manual journal entry. Exactly one
// of debitAmount/creditAmount must be positive; the service enforces this
// beyond what binding tags can express.
type CreateJournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// CreateJournalEntryRequest creates a draft journal entry.
type CreateJournalEntryRequest struct {
	Date         time.Time                  `json:"date" binding:"required"`
	Description  string                     `json:"description" binding:"required"`
	Reference    string                     `json:"reference"`
	CurrencyCode string                     `json:"currencyCode" binding:"required,len=3"`
	SourceType   string                     `json:"sourceType"`
	SourceID     string                     `json:"sourceID"`
	Lines        []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// VoidJournalEntryRequest voids a posted entry.
type VoidJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// JournalLineResponse is the API shape of a journal line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	LineNumber   int             `json:"lineNumber"`
	Description  string          `json:"description"`
}

// JournalEntryResponse is the API shape of a journal entry.
type JournalEntryResponse struct {
	EntryID      string                `json:"entryID"`
	CompanyID    string                `json:"companyID"`
	EntryDate    time.Time             `json:"entryDate"`
	Description  string                `json:"description"`
	Reference    string                `json:"reference,omitempty"`
	CurrencyCode string                `json:"currencyCode"`
	Status       string                `json:"status"`
	SourceType   string                `json:"sourceType,omitempty"`
	SourceID     string                `json:"sourceID,omitempty"`
	PostedAt     *time.Time            `json:"postedAt,omitempty"`
	PostedBy     string                `json:"postedBy,omitempty"`
	Metadata     domain.EntryMetadata  `json:"metadata"`
	Lines        []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// ToJournalLineResponse converts a domain line to its API shape.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:       l.LineID,
		EntryID:      l.EntryID,
		AccountID:    l.AccountID,
		DebitAmount:  l.DebitAmount,
		CreditAmount: l.CreditAmount,
		LineNumber:   l.LineNumber,
		Description:  l.Description,
	}
}

// ToJournalEntryResponse converts a domain entry (lines included if loaded)
// to its API shape.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:      e.EntryID,
		CompanyID:    e.CompanyID,
		EntryDate:    e.EntryDate,
		Description:  e.Description,
		Reference:    e.Reference,
		CurrencyCode: e.CurrencyCode,
		Status:       string(e.Status),
		SourceType:   string(e.SourceType),
		SourceID:     e.SourceID,
		PostedAt:     e.PostedAt,
		PostedBy:     e.PostedBy,
		Metadata:     e.Metadata,
		CreatedAt:    e.CreatedAt,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = ToJournalLineResponse(l)
		}
	}
	return resp
}

// ListEntriesParams controls entry listing pagination.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is a page of journal entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// AccountBalanceResponse is the API shape of a computed account balance.
type AccountBalanceResponse struct {
	AccountID   string          `json:"accountID"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
	BalanceType string          `json:"balanceType"`
	AsOf        *time.Time      `json:"asOf,omitempty"`
}
