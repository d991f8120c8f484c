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

// --- Mock PostingTemplateService ---

type MockPostingTemplateService struct {
	mock.Mock
}

var _ portssvc.PostingTemplateSvcFacade = (*MockPostingTemplateService)(nil)

func (m *MockPostingTemplateService) SaveTemplate(ctx context.Context, companyID string, req dto.SavePostingTemplateRequest, userID string) (*domain.PostingTemplate, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingTemplate), args.Error(1)
}

func (m *MockPostingTemplateService) GetTemplateByID(ctx context.Context, companyID string, templateID string, userID string) (*domain.PostingTemplate, error) {
	args := m.Called(ctx, companyID, templateID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingTemplate), args.Error(1)
}

func (m *MockPostingTemplateService) ListTemplates(ctx context.Context, companyID string, userID string) ([]domain.PostingTemplate, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostingTemplate), args.Error(1)
}

func (m *MockPostingTemplateService) ResolveBindings(ctx context.Context, companyID string, docType domain.DocType, asOf time.Time, overrides map[string]string) (domain.RoleBinding, error) {
	args := m.Called(ctx, companyID, docType, asOf, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RoleBinding), args.Error(1)
}

// --- Mock TaxService ---

type MockTaxService struct {
	mock.Mock
}

var _ portssvc.TaxSvcFacade = (*MockTaxService)(nil)

func (m *MockTaxService) CalculateLineTax(ctx context.Context, companyID string, line domain.TaxableLine, mode domain.TaxMode, taxRuleIDs []string) (domain.TaxResult, error) {
	args := m.Called(ctx, companyID, line, mode, taxRuleIDs)
	return args.Get(0).(domain.TaxResult), args.Error(1)
}

func (m *MockTaxService) ReverseCalculateInclusive(total decimal.Decimal, combinedRate decimal.Decimal) decimal.Decimal {
	args := m.Called(total, combinedRate)
	return args.Get(0).(decimal.Decimal)
}

func (m *MockTaxService) CreateTaxRule(ctx context.Context, companyID string, req dto.CreateTaxRuleRequest, userID string) (*domain.TaxRule, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRule), args.Error(1)
}

func (m *MockTaxService) ListTaxRules(ctx context.Context, companyID string, userID string) ([]domain.TaxRule, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRule), args.Error(1)
}

// --- Mock LedgerService ---

type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) CreateJournalEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) PostJournalEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) VoidJournalEntry(ctx context.Context, companyID string, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) GetJournalEntryByID(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) GetAccountBalance(ctx context.Context, companyID string, accountID string, asOf *time.Time, userID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, companyID, accountID, asOf, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockLedgerService) ListJournalEntries(ctx context.Context, companyID string, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockLedgerService) DeleteDraftEntry(ctx context.Context, companyID string, entryID string, userID string) error {
	args := m.Called(ctx, companyID, entryID, userID)
	return args.Error(0)
}

// --- Mock ExchangeRateService ---

type MockFxService struct {
	mock.Mock
}

var _ portssvc.ExchangeRateSvcFacade = (*MockFxService)(nil)

func (m *MockFxService) GetExchangeRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFxService) ConvertCurrency(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, asOf time.Time, customRate *decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, fromCode, toCode, asOf, customRate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFxService) UpsertExchangeRate(ctx context.Context, req dto.UpsertExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockFxService) ImportRates(ctx context.Context, baseCurrency string, userID string) (int, error) {
	args := m.Called(ctx, baseCurrency, userID)
	return args.Int(0), args.Error(1)
}

// --- Test Suite ---

type PostingServiceTestSuite struct {
	suite.Suite
	mockTemplateSvc  *MockPostingTemplateService
	mockTaxSvc       *MockTaxService
	mockLedgerSvc    *MockLedgerService
	mockFxSvc        *MockFxService
	mockCompanyRepo  *MockCompanyRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockAuthorizer   *MockAuthorizer
	service          portssvc.PostingSvcFacade
	companyID        string
	userID           string
	binding          domain.RoleBinding
	arAccountID      string
	revenueAccountID string
	taxAccountID     string
	bankAccountID    string
	docDate          time.Time
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockTemplateSvc = new(MockPostingTemplateService)
	suite.mockTaxSvc = new(MockTaxService)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.mockFxSvc = new(MockFxService)
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewPostingService(
		suite.mockTemplateSvc,
		suite.mockTaxSvc,
		suite.mockLedgerSvc,
		suite.mockFxSvc,
		suite.mockCompanyRepo,
		suite.mockCurrencyRepo,
		suite.mockAuthorizer,
	)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.arAccountID = uuid.NewString()
	suite.revenueAccountID = uuid.NewString()
	suite.taxAccountID = uuid.NewString()
	suite.bankAccountID = uuid.NewString()
	suite.binding = domain.RoleBinding{
		domain.RoleARControl: suite.arAccountID,
		domain.RoleRevenue:   suite.revenueAccountID,
		domain.RoleTaxPayable: suite.taxAccountID,
		domain.RoleBank:      suite.bankAccountID,
	}
	suite.docDate = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
}

func (suite *PostingServiceTestSuite) authorize(role domain.UserCompanyRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, role).Return(nil).Once()
}

func (suite *PostingServiceTestSuite) expectUSD() {
	usd := &domain.Currency{CurrencyCode: "USD", DecimalPlaces: 2}
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(usd, nil).Maybe()
}

func (suite *PostingServiceTestSuite) TestPreviewInvoice_ThreeLinesWithTax() {
	req := dto.CreateInvoiceRequest{
		InvoiceID:    "inv-7",
		Date:         suite.docDate,
		CurrencyCode: "USD",
		Lines:        []dto.DocumentLine{{Description: "Consulting", Amount: decimal.NewFromInt(100)}},
	}

	suite.authorize(domain.RoleReadOnly)
	suite.mockTemplateSvc.On("ResolveBindings", mock.Anything, suite.companyID, domain.DocInvoice, suite.docDate, mock.Anything).Return(suite.binding, nil).Once()
	suite.mockTaxSvc.On("CalculateLineTax", mock.Anything, suite.companyID, mock.AnythingOfType("domain.TaxableLine"), domain.TaxExclusive, mock.Anything).
		Return(domain.TaxResult{
			TaxableAmount: decimal.NewFromInt(100),
			TaxAmount:     decimal.NewFromInt(10),
			AppliedRules:  []string{"vat"},
		}, nil).Once()
	suite.expectUSD()

	preview, err := suite.service.PreviewInvoice(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(preview.Subtotal.Equal(decimal.NewFromInt(100)))
	suite.True(preview.TaxAmount.Equal(decimal.NewFromInt(10)))
	suite.True(preview.Total.Equal(decimal.NewFromInt(110)))
	suite.Require().Len(preview.Lines, 3)

	// AR debit 110, revenue credit 100, tax payable credit 10.
	suite.Equal(suite.arAccountID, preview.Lines[0].AccountID)
	suite.True(preview.Lines[0].DebitAmount.Equal(decimal.NewFromInt(110)))
	suite.Equal(suite.revenueAccountID, preview.Lines[1].AccountID)
	suite.True(preview.Lines[1].CreditAmount.Equal(decimal.NewFromInt(100)))
	suite.Equal(suite.taxAccountID, preview.Lines[2].AccountID)
	suite.True(preview.Lines[2].CreditAmount.Equal(decimal.NewFromInt(10)))
}

func (suite *PostingServiceTestSuite) TestPreviewInvoice_NoTaxOmitsTaxLine() {
	req := dto.CreateInvoiceRequest{
		Date:         suite.docDate,
		CurrencyCode: "USD",
		Lines:        []dto.DocumentLine{{Amount: decimal.NewFromInt(100)}},
	}

	suite.authorize(domain.RoleReadOnly)
	suite.mockTemplateSvc.On("ResolveBindings", mock.Anything, suite.companyID, domain.DocInvoice, suite.docDate, mock.Anything).Return(suite.binding, nil).Once()
	suite.mockTaxSvc.On("CalculateLineTax", mock.Anything, suite.companyID, mock.AnythingOfType("domain.TaxableLine"), domain.TaxExclusive, mock.Anything).
		Return(domain.TaxResult{TaxableAmount: decimal.NewFromInt(100), TaxAmount: decimal.Zero}, nil).Once()
	suite.expectUSD()

	preview, err := suite.service.PreviewInvoice(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(preview.Lines, 2)
}

func (suite *PostingServiceTestSuite) TestPostInvoice_CreatesAndPosts() {
	req := dto.CreateInvoiceRequest{
		InvoiceID:    "inv-7",
		Date:         suite.docDate,
		CurrencyCode: "USD",
		Lines:        []dto.DocumentLine{{Amount: decimal.NewFromInt(100)}},
	}
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Draft}
	posted := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Posted}

	suite.authorize(domain.RoleMember)
	suite.mockTemplateSvc.On("ResolveBindings", mock.Anything, suite.companyID, domain.DocInvoice, suite.docDate, mock.Anything).Return(suite.binding, nil).Once()
	suite.mockTaxSvc.On("CalculateLineTax", mock.Anything, suite.companyID, mock.AnythingOfType("domain.TaxableLine"), domain.TaxExclusive, mock.Anything).
		Return(domain.TaxResult{TaxableAmount: decimal.NewFromInt(100), TaxAmount: decimal.NewFromInt(10)}, nil).Once()
	suite.expectUSD()
	suite.mockLedgerSvc.On("CreateJournalEntry", mock.Anything, suite.companyID, mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool {
		return r.SourceType == string(domain.SourceInvoice) && r.SourceID == "inv-7" && len(r.Lines) == 3
	}), suite.userID).Return(draft, nil).Once()
	suite.mockLedgerSvc.On("PostJournalEntry", mock.Anything, suite.companyID, entryID, suite.userID).Return(posted, nil).Once()

	entry, err := suite.service.PostInvoice(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, entry.Status)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostInvoice_DuplicateSurfaces() {
	req := dto.CreateInvoiceRequest{
		InvoiceID:    "inv-7",
		Date:         suite.docDate,
		CurrencyCode: "USD",
		Lines:        []dto.DocumentLine{{Amount: decimal.NewFromInt(100)}},
	}
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Draft}

	suite.authorize(domain.RoleMember)
	suite.mockTemplateSvc.On("ResolveBindings", mock.Anything, suite.companyID, domain.DocInvoice, suite.docDate, mock.Anything).Return(suite.binding, nil).Once()
	suite.mockTaxSvc.On("CalculateLineTax", mock.Anything, suite.companyID, mock.AnythingOfType("domain.TaxableLine"), domain.TaxExclusive, mock.Anything).
		Return(domain.TaxResult{TaxableAmount: decimal.NewFromInt(100), TaxAmount: decimal.Zero}, nil).Once()
	suite.expectUSD()
	suite.mockLedgerSvc.On("CreateJournalEntry", mock.Anything, suite.companyID, mock.Anything, suite.userID).Return(draft, nil).Once()
	suite.mockLedgerSvc.On("PostJournalEntry", mock.Anything, suite.companyID, entryID, suite.userID).Return(nil, apperrors.ErrDuplicate).Once()

	_, err := suite.service.PostInvoice(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *PostingServiceTestSuite) TestPostBill_MirrorsInvoice() {
	binding := domain.RoleBinding{
		domain.RoleAPControl:     uuid.NewString(),
		domain.RoleExpense:       uuid.NewString(),
		domain.RoleTaxReceivable: uuid.NewString(),
	}
	req := dto.CreateBillRequest{
		InvoiceID:    "bill-3",
		Date:         suite.docDate,
		CurrencyCode: "USD",
		Lines:        []dto.DocumentLine{{Amount: decimal.NewFromInt(200)}},
	}
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Draft}
	posted := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Posted}

	suite.authorize(domain.RoleMember)
	suite.mockTemplateSvc.On("ResolveBindings", mock.Anything, suite.companyID, domain.DocBill, suite.docDate, mock.Anything).Return(binding, nil).Once()
	suite.mockTaxSvc.On("CalculateLineTax", mock.Anything, suite.companyID, mock.AnythingOfType("domain.TaxableLine"), domain.TaxExclusive, mock.Anything).
		Return(domain.TaxResult{TaxableAmount: decimal.NewFromInt(200), TaxAmount: decimal.NewFromInt(30)}, nil).Once()
	suite.expectUSD()
	suite.mockLedgerSvc.On("CreateJournalEntry", mock.Anything, suite.companyID, mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool {
		if r.SourceType != string(domain.SourceBill) || len(r.Lines) != 3 {
			return false
		}
		// Payable credited with the total, expense and tax receivable debited.
		return r.Lines[0].CreditAmount.Equal(decimal.NewFromInt(230)) &&
			r.Lines[1].DebitAmount.Equal(decimal.NewFromInt(200)) &&
			r.Lines[2].DebitAmount.Equal(decimal.NewFromInt(30))
	}), suite.userID).Return(draft, nil).Once()
	suite.mockLedgerSvc.On("PostJournalEntry", mock.Anything, suite.companyID, entryID, suite.userID).Return(posted, nil).Once()

	_, err := suite.service.PostBill(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostPayment_ConvertsCurrency() {
	company := &domain.Company{
		CompanyID:           suite.companyID,
		DefaultCurrencyCode: "USD",
	}
	req := dto.CreatePaymentRequest{
		PaymentID:    "pay-9",
		Date:         suite.docDate,
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "EUR",
		Method:       "bank",
	}
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Draft}
	posted := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Posted}

	suite.authorize(domain.RoleMember)
	suite.mockTemplateSvc.On("ResolveBindings", mock.Anything, suite.companyID, domain.DocPayment, suite.docDate, mock.Anything).Return(suite.binding, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", mock.Anything, suite.companyID).Return(company, nil).Once()
	suite.mockFxSvc.On("ConvertCurrency", mock.Anything, decimal.NewFromInt(100), "EUR", "USD", suite.docDate, (*decimal.Decimal)(nil)).
		Return(decimal.RequireFromString("108.70"), nil).Once()
	suite.mockLedgerSvc.On("CreateJournalEntry", mock.Anything, suite.companyID, mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool {
		return r.CurrencyCode == "USD" && len(r.Lines) == 2 &&
			r.Lines[0].DebitAmount.Equal(decimal.RequireFromString("108.70")) &&
			r.Lines[1].CreditAmount.Equal(decimal.RequireFromString("108.70"))
	}), suite.userID).Return(draft, nil).Once()
	suite.mockLedgerSvc.On("PostJournalEntry", mock.Anything, suite.companyID, entryID, suite.userID).Return(posted, nil).Once()

	_, err := suite.service.PostPayment(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockFxSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostPayment_CashMethodNeedsCashBinding() {
	req := dto.CreatePaymentRequest{
		Date:         suite.docDate,
		Amount:       decimal.NewFromInt(50),
		CurrencyCode: "USD",
		Method:       "cash",
	}

	suite.authorize(domain.RoleMember)
	// Binding has bank but no cash account.
	suite.mockTemplateSvc.On("ResolveBindings", mock.Anything, suite.companyID, domain.DocPayment, suite.docDate, mock.Anything).Return(suite.binding, nil).Once()

	_, err := suite.service.PostPayment(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostPayment_RejectsNonPositiveAmount() {
	req := dto.CreatePaymentRequest{
		Date:         suite.docDate,
		Amount:       decimal.Zero,
		CurrencyCode: "USD",
		Method:       "bank",
	}

	suite.authorize(domain.RoleMember)

	_, err := suite.service.PostPayment(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
