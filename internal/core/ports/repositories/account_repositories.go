package repositories

import (
	"context"
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
)

// AccountRepositoryFacade defines persistence operations for ledger accounts.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.LedgerAccount) error
	UpdateAccount(ctx context.Context, account domain.LedgerAccount) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error)
	// FindAccountsByIDs returns the accounts for the given IDs keyed by ID.
	// Missing IDs are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.LedgerAccount, error)
	ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.LedgerAccount, error)
	// HasJournalLines reports whether any journal line references the account.
	// Referenced accounts are deactivated instead of deleted.
	HasJournalLines(ctx context.Context, accountID string) (bool, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
	DeleteAccount(ctx context.Context, accountID string) error
}
