package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/core/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockAuthorizer   *MockAuthorizer
	service          portssvc.LedgerSvcFacade
	companyID        string
	userID           string
	arAccount        domain.LedgerAccount
	revenueAccount   domain.LedgerAccount
	taxAccount       domain.LedgerAccount
	usd              domain.Currency
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewLedgerService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockCurrencyRepo, suite.mockAuthorizer)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.usd = domain.Currency{CurrencyCode: "USD", DecimalPlaces: 2}

	suite.arAccount = domain.LedgerAccount{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		AccountType:   domain.Asset,
		NormalBalance: domain.NormalDebit,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
	suite.revenueAccount = domain.LedgerAccount{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		AccountType:   domain.Revenue,
		NormalBalance: domain.NormalCredit,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
	suite.taxAccount = domain.LedgerAccount{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		AccountType:   domain.Liability,
		NormalBalance: domain.NormalCredit,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
}

func (suite *LedgerServiceTestSuite) authorize(role domain.UserCompanyRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, role).Return(nil).Once()
}

func (suite *LedgerServiceTestSuite) accountsMap(accounts ...domain.LedgerAccount) map[string]domain.LedgerAccount {
	out := make(map[string]domain.LedgerAccount, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out
}

func (suite *LedgerServiceTestSuite) TestCreateJournalEntry_Success() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date:         time.Now(),
		Description:  "Opening sale",
		CurrencyCode: "USD",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.arAccount.AccountID, DebitAmount: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(100)},
		},
	}

	suite.authorize(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(&suite.usd, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, suite.companyID, []string{suite.arAccount.AccountID, suite.revenueAccount.AccountID}).
		Return(suite.accountsMap(suite.arAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("SaveJournalEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	entry, err := suite.service.CreateJournalEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal(domain.SourceManual, entry.SourceType)
	suite.Len(entry.Lines, 2)
	suite.Equal(1, entry.Lines[0].LineNumber)
	suite.Equal(2, entry.Lines[1].LineNumber)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateJournalEntry_ThreeLineInvoiceShape() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date:         time.Now(),
		Description:  "Invoice with tax",
		CurrencyCode: "USD",
		SourceType:   string(domain.SourceInvoice),
		SourceID:     "inv-1001",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.arAccount.AccountID, DebitAmount: decimal.NewFromInt(110)},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(100)},
			{AccountID: suite.taxAccount.AccountID, CreditAmount: decimal.NewFromInt(10)},
		},
	}

	suite.authorize(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(&suite.usd, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, suite.companyID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.arAccount, suite.revenueAccount, suite.taxAccount), nil).Once()
	suite.mockJournalRepo.On("SaveJournalEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	entry, err := suite.service.CreateJournalEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SourceInvoice, entry.SourceType)
	suite.Equal("inv-1001", entry.SourceID)
	suite.Len(entry.Lines, 3)
}

func (suite *LedgerServiceTestSuite) TestCreateJournalEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date:         time.Now(),
		Description:  "Does not balance",
		CurrencyCode: "USD",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.arAccount.AccountID, DebitAmount: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(90)},
		},
	}

	suite.authorize(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(&suite.usd, nil).Once()

	entry, err := suite.service.CreateJournalEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateJournalEntry_ZeroDecimalCurrencyHasNoTolerance() {
	ctx := context.Background()
	jpy := domain.Currency{CurrencyCode: "JPY", DecimalPlaces: 0}
	req := dto.CreateJournalEntryRequest{
		Date:         time.Now(),
		Description:  "Off by half a yen",
		CurrencyCode: "JPY",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.arAccount.AccountID, DebitAmount: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.RequireFromString("98.5")},
		},
	}

	suite.authorize(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "JPY").Return(&jpy, nil).Once()

	_, err := suite.service.CreateJournalEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
}

func (suite *LedgerServiceTestSuite) TestCreateJournalEntry_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.revenueAccount
	inactive.IsActive = false
	req := dto.CreateJournalEntryRequest{
		Date:         time.Now(),
		Description:  "Posts to inactive account",
		CurrencyCode: "USD",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.arAccount.AccountID, DebitAmount: decimal.NewFromInt(50)},
			{AccountID: inactive.AccountID, CreditAmount: decimal.NewFromInt(50)},
		},
	}

	suite.authorize(domain.RoleMember)
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(&suite.usd, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, suite.companyID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.arAccount, inactive), nil).Once()

	_, err := suite.service.CreateJournalEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (suite *LedgerServiceTestSuite) TestPostJournalEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{
		EntryID:    entryID,
		CompanyID:  suite.companyID,
		Status:     domain.Draft,
		SourceType: domain.SourceManual,
	}

	suite.authorize(domain.RoleMember)
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).Return(draft, nil).Once()
	suite.mockJournalRepo.On("MarkEntryPosted", mock.Anything, entryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	posted, err := suite.service.PostJournalEntry(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal(suite.userID, posted.PostedBy)
	suite.NotNil(posted.PostedAt)
}

func (suite *LedgerServiceTestSuite) TestPostJournalEntry_AlreadyPosted() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:   entryID,
		CompanyID: suite.companyID,
		Status:    domain.Posted,
	}

	suite.authorize(domain.RoleMember)
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).Return(entry, nil).Once()

	_, err := suite.service.PostJournalEntry(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostJournalEntry_DuplicateSource() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{
		EntryID:    entryID,
		CompanyID:  suite.companyID,
		Status:     domain.Draft,
		SourceType: domain.SourceInvoice,
		SourceID:   "inv-42",
	}
	existing := &domain.JournalEntry{
		EntryID:    uuid.NewString(),
		CompanyID:  suite.companyID,
		Status:     domain.Posted,
		SourceType: domain.SourceInvoice,
		SourceID:   "inv-42",
	}

	suite.authorize(domain.RoleMember)
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).Return(draft, nil).Once()
	suite.mockJournalRepo.On("FindPostedEntryBySource", mock.Anything, suite.companyID, domain.SourceInvoice, "inv-42").Return(existing, nil).Once()

	_, err := suite.service.PostJournalEntry(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *LedgerServiceTestSuite) TestVoidJournalEntry_ReversesLines() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{
		EntryID:      entryID,
		CompanyID:    suite.companyID,
		Status:       domain.Posted,
		CurrencyCode: "USD",
	}
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.arAccount.AccountID, DebitAmount: decimal.NewFromInt(110), LineNumber: 1},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(100), LineNumber: 2},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.taxAccount.AccountID, CreditAmount: decimal.NewFromInt(10), LineNumber: 3},
	}

	suite.authorize(domain.RoleMember)
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).Return(posted, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, entryID).Return(originalLines, nil).Once()
	suite.mockJournalRepo.On("SaveReversalAndVoid", mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine"), entryID, "wrong customer", suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversal, err := suite.service.VoidJournalEntry(ctx, suite.companyID, entryID, "wrong customer", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, reversal.Status)
	suite.Equal(domain.SourceReversal, reversal.SourceType)
	suite.Equal(entryID, reversal.SourceID)
	suite.Require().NotNil(reversal.Metadata.ReversalOfEntryID)
	suite.Equal(entryID, *reversal.Metadata.ReversalOfEntryID)
	suite.Require().Len(reversal.Lines, 3)
	// Debits and credits swap, amounts and accounts stay.
	suite.True(reversal.Lines[0].CreditAmount.Equal(decimal.NewFromInt(110)))
	suite.True(reversal.Lines[1].DebitAmount.Equal(decimal.NewFromInt(100)))
	suite.True(reversal.Lines[2].DebitAmount.Equal(decimal.NewFromInt(10)))
	suite.Equal(suite.arAccount.AccountID, reversal.Lines[0].AccountID)
}

func (suite *LedgerServiceTestSuite) TestVoidJournalEntry_DraftNotVoidable() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{
		EntryID:   entryID,
		CompanyID: suite.companyID,
		Status:    domain.Draft,
	}

	suite.authorize(domain.RoleMember)
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).Return(draft, nil).Once()

	_, err := suite.service.VoidJournalEntry(ctx, suite.companyID, entryID, "typo", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LedgerServiceTestSuite) TestGetAccountBalance_DebitNormal() {
	ctx := context.Background()

	suite.authorize(domain.RoleReadOnly)
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.arAccount.AccountID).Return(&suite.arAccount, nil).Once()
	suite.mockJournalRepo.On("AccountTotals", mock.Anything, suite.companyID, suite.arAccount.AccountID, (*time.Time)(nil)).
		Return(decimal.NewFromInt(300), decimal.NewFromInt(120), nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, suite.companyID, suite.arAccount.AccountID, nil, suite.userID)

	suite.Require().NoError(err)
	suite.True(balance.Balance.Equal(decimal.NewFromInt(180)))
	suite.Equal(domain.NormalDebit, balance.BalanceType)
}

func (suite *LedgerServiceTestSuite) TestGetAccountBalance_FlipsLabelWhenNegative() {
	ctx := context.Background()

	suite.authorize(domain.RoleReadOnly)
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.arAccount.AccountID).Return(&suite.arAccount, nil).Once()
	suite.mockJournalRepo.On("AccountTotals", mock.Anything, suite.companyID, suite.arAccount.AccountID, (*time.Time)(nil)).
		Return(decimal.NewFromInt(50), decimal.NewFromInt(80), nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, suite.companyID, suite.arAccount.AccountID, nil, suite.userID)

	suite.Require().NoError(err)
	suite.True(balance.Balance.Equal(decimal.NewFromInt(-30)))
	suite.Equal(domain.NormalCredit, balance.BalanceType)
}

func (suite *LedgerServiceTestSuite) TestGetJournalEntry_WrongCompany() {
	ctx := context.Background()
	entryID := uuid.NewString()
	otherCompanyEntry := &domain.JournalEntry{
		EntryID:   entryID,
		CompanyID: uuid.NewString(),
		Status:    domain.Posted,
	}

	suite.authorize(domain.RoleReadOnly)
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).Return(otherCompanyEntry, nil).Once()

	_, err := suite.service.GetJournalEntryByID(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestDeleteDraftEntry_PostedRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{
		EntryID:   entryID,
		CompanyID: suite.companyID,
		Status:    domain.Posted,
	}

	suite.authorize(domain.RoleMember)
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).Return(posted, nil).Once()

	err := suite.service.DeleteDraftEntry(ctx, suite.companyID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
