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
	"github.com/rakibulmuhajir/haasib/internal/utils/accounting"
)

const defaultListLimit = 50

type ledgerSvc struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

var _ portssvc.LedgerSvcFacade = (*ledgerSvc)(nil)

// NewLedgerService creates a new ledger service instance.
func NewLedgerService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
) *ledgerSvc {
	return &ledgerSvc{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

// CreateJournalEntry validates and stores a new draft entry with its lines.
// Validation checks line structure, the balance invariant scaled to the entry
// currency, and that every referenced account exists, is active and belongs to
// the company.
func (s *ledgerSvc) CreateJournalEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now()
	entryID := uuid.NewString()
	lines := make([]domain.JournalLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lr := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    lr.AccountID,
			DebitAmount:  lr.DebitAmount,
			CreditAmount: lr.CreditAmount,
			LineNumber:   i + 1,
			Description:  lr.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
		accountIDs = append(accountIDs, lr.AccountID)
	}

	tolerance := accounting.DefaultBalanceTolerance
	if currency, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err == nil {
		tolerance = accounting.BalanceTolerance(currency.DecimalPlaces)
	} else {
		return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, req.CurrencyCode)
	}

	if err := accounting.ValidateEntryBalance(lines, tolerance); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for entry validation", slog.String("company_id", companyID))
		return nil, err
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrInvalidAccount, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrInvalidAccount, id)
		}
	}

	sourceType := domain.SourceType(req.SourceType)
	if sourceType == "" {
		sourceType = domain.SourceManual
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		CompanyID:    companyID,
		EntryDate:    req.Date,
		Description:  req.Description,
		Reference:    req.Reference,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Draft,
		SourceType:   sourceType,
		SourceID:     req.SourceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveJournalEntry(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Lines = lines
	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entryID),
		slog.String("company_id", companyID),
		slog.Int("line_count", len(lines)))
	return &entry, nil
}

// PostJournalEntry transitions a draft entry to POSTED. The DRAFT guard lives
// in the repository UPDATE predicate so two concurrent posts cannot both
// succeed.
func (s *ledgerSvc) PostJournalEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == domain.Posted {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyPosted, entryID)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", apperrors.ErrNotPostable, entryID, entry.Status)
	}

	// The same document must not hit the ledger twice. Reversals are exempt
	// because they intentionally share the original's source.
	if entry.SourceType != domain.SourceManual && entry.SourceType != domain.SourceReversal && entry.SourceID != "" {
		if existing, err := s.journalRepo.FindPostedEntryBySource(ctx, companyID, entry.SourceType, entry.SourceID); err == nil {
			return nil, fmt.Errorf("%w: %s %s already posted as entry %s",
				apperrors.ErrDuplicate, entry.SourceType, entry.SourceID, existing.EntryID)
		}
	}

	now := time.Now()
	if err := s.journalRepo.MarkEntryPosted(ctx, entryID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entryID))
	return entry, nil
}

// VoidJournalEntry voids a posted entry by creating a posted reversing entry
// and flipping the original to VOID in the same transaction. The original's
// lines stay untouched; the two entries net to zero.
func (s *ledgerSvc) VoidJournalEntry(ctx context.Context, companyID string, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: void reason is required", apperrors.ErrValidation)
	}

	original, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: only posted entries can be voided, entry %s is %s",
			apperrors.ErrConflict, entryID, original.Status)
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reversalID := uuid.NewString()
	reversalLines := accounting.ReverseLines(originalLines)
	for i := range reversalLines {
		reversalLines[i].LineID = uuid.NewString()
		reversalLines[i].EntryID = reversalID
		reversalLines[i].AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
	}

	reversal := domain.JournalEntry{
		EntryID:      reversalID,
		CompanyID:    companyID,
		EntryDate:    now,
		Description:  fmt.Sprintf("Reversal of %s: %s", original.EntryID, reason),
		Reference:    original.Reference,
		CurrencyCode: original.CurrencyCode,
		Status:       domain.Posted,
		SourceType:   domain.SourceReversal,
		SourceID:     original.EntryID,
		Metadata:     domain.EntryMetadata{ReversalOfEntryID: &original.EntryID},
		PostedAt:     &now,
		PostedBy:     userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.journalRepo.SaveReversalAndVoid(ctx, reversal, reversalLines, entryID, reason, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to void journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	reversal.Lines = reversalLines
	s.LogInfo(ctx, "Journal entry voided",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversalID))
	return &reversal, nil
}

func (s *ledgerSvc) GetJournalEntryByID(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

// GetAccountBalance computes the balance from posted entries only. Drafts and
// voided originals plus their reversals net out of the picture.
func (s *ledgerSvc) GetAccountBalance(ctx context.Context, companyID string, accountID string, asOf *time.Time, userID string) (*domain.AccountBalance, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	totalDebit, totalCredit, err := s.journalRepo.AccountTotals(ctx, companyID, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute account totals", slog.String("account_id", accountID))
		return nil, err
	}

	balance, balanceType := accounting.BalanceFromTotals(totalDebit, totalCredit, account.NormalBalance)
	return &domain.AccountBalance{
		AccountID:   accountID,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Balance:     balance,
		BalanceType: balanceType,
		AsOf:        asOf,
	}, nil
}

func (s *ledgerSvc) ListJournalEntries(ctx context.Context, companyID string, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByCompany(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := dto.ListEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return &resp, nil
}

func (s *ledgerSvc) DeleteDraftEntry(ctx context.Context, companyID string, entryID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return err
	}

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: only draft entries can be deleted", apperrors.ErrConflict)
	}
	return s.journalRepo.DeleteDraftEntry(ctx, companyID, entryID)
}

func (s *ledgerSvc) findCompanyEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return entry, nil
}
