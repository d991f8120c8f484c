package repositories

import (
	"context"
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalRepositoryFacade defines persistence operations for journal entries
// and their lines. Multi-row operations are atomic: either every row of an
// entry exists or none does.
type JournalRepositoryFacade interface {
	// SaveJournalEntry inserts the entry and all its lines in one database
	// transaction. A POSTED entry whose (company, source type, source id)
	// already has a posted entry fails with apperrors.ErrDuplicate via the
	// partial unique index.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)
	// MarkEntryPosted transitions a DRAFT entry to POSTED. The status guard is
	// part of the UPDATE predicate; zero rows affected maps to
	// apperrors.ErrNotPostable.
	MarkEntryPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error
	// SaveReversalAndVoid atomically inserts the posted reversing entry with
	// its lines and flips the original entry to VOID with the void metadata.
	SaveReversalAndVoid(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalLine, originalEntryID string, reason string, userID string, now time.Time) error
	FindPostedEntryBySource(ctx context.Context, companyID string, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error)
	// AccountTotals sums posted debits and credits for one account up to and
	// including asOf (all history when asOf is nil).
	AccountTotals(ctx context.Context, companyID string, accountID string, asOf *time.Time) (totalDebit, totalCredit decimal.Decimal, err error)
	ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
	ListLinesByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
	// DeleteDraftEntry removes a draft entry and its lines. Posted and void
	// entries are never deletable.
	DeleteDraftEntry(ctx context.Context, companyID string, entryID string) error
}
