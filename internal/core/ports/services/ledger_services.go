package services

import (
	"context"
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/dto"
)

// LedgerSvcFacade is the single entry point for all journal entry mutation.
// No other component writes journal lines or flips entry status directly.
type LedgerSvcFacade interface {
	CreateJournalEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
	PostJournalEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)
	VoidJournalEntry(ctx context.Context, companyID string, entryID string, reason string, userID string) (*domain.JournalEntry, error)
	GetJournalEntryByID(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)
	GetAccountBalance(ctx context.Context, companyID string, accountID string, asOf *time.Time, userID string) (*domain.AccountBalance, error)
	ListJournalEntries(ctx context.Context, companyID string, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	DeleteDraftEntry(ctx context.Context, companyID string, entryID string, userID string) error
}
