package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
)

type accountSvc struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

var _ portssvc.AccountSvcFacade = (*accountSvc)(nil)

// NewAccountService creates a new account service instance.
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
) *accountSvc {
	return &accountSvc{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

func (s *accountSvc) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, req.CurrencyCode)
	}

	accountType := domain.AccountType(req.AccountType)
	normalBalance := domain.NormalBalance(req.NormalBalance)
	if normalBalance == "" {
		normalBalance = domain.DefaultNormalBalance(accountType)
	}

	now := time.Now()
	account := domain.LedgerAccount{
		AccountID:     uuid.NewString(),
		CompanyID:     companyID,
		Code:          req.Code,
		Name:          req.Name,
		AccountType:   accountType,
		Subtype:       req.Subtype,
		NormalBalance: normalBalance,
		CurrencyCode:  req.CurrencyCode,
		Description:   req.Description,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("company_id", companyID), slog.String("code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountSvc) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.findCompanyAccount(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Subtype != nil {
		account.Subtype = *req.Subtype
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account no journal line references. Once lines
// exist the account is only deactivated so history stays intact.
func (s *accountSvc) DeleteAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleOwner); err != nil {
		return err
	}

	if _, err := s.findCompanyAccount(ctx, companyID, accountID); err != nil {
		return err
	}

	referenced, err := s.accountRepo.HasJournalLines(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check account references", slog.String("account_id", accountID))
		return err
	}
	if referenced {
		s.LogInfo(ctx, "Account has journal lines, deactivating instead of deleting", slog.String("account_id", accountID))
		return s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now())
	}
	return s.accountRepo.DeleteAccount(ctx, accountID)
}

func (s *accountSvc) GetAccountByID(ctx context.Context, companyID string, accountID string, userID string) (*domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findCompanyAccount(ctx, companyID, accountID)
}

func (s *accountSvc) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string, userID string) (map[string]domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
}

func (s *accountSvc) ListAccounts(ctx context.Context, companyID string, userID string) ([]domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccountsByCompany(ctx, companyID)
}

// findCompanyAccount loads an account and verifies it belongs to the company.
// Cross-company IDs surface as ErrNotFound.
func (s *accountSvc) findCompanyAccount(ctx context.Context, companyID, accountID string) (*domain.LedgerAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}
