package services

import (
	"context"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.LedgerAccount, error)
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.LedgerAccount, error)
	// DeleteAccount removes an unreferenced account outright and deactivates
	// an account that journal lines already reference.
	DeleteAccount(ctx context.Context, companyID string, accountID string, userID string) error
	GetAccountByID(ctx context.Context, companyID string, accountID string, userID string) (*domain.LedgerAccount, error)
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string, userID string) (map[string]domain.LedgerAccount, error)
	ListAccounts(ctx context.Context, companyID string, userID string) ([]domain.LedgerAccount, error)
}
