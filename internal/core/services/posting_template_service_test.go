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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PostingTemplateServiceTestSuite struct {
	suite.Suite
	mockTemplateRepo *MockTemplateRepository
	mockAccountRepo  *MockAccountRepository
	mockAuthorizer   *MockAuthorizer
	service          portssvc.PostingTemplateSvcFacade
	companyID        string
	userID           string
	arAccount        domain.LedgerAccount
	revenueAccount   domain.LedgerAccount
	asOf             time.Time
}

func (suite *PostingTemplateServiceTestSuite) SetupTest() {
	suite.mockTemplateRepo = new(MockTemplateRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewPostingTemplateService(suite.mockTemplateRepo, suite.mockAccountRepo, suite.mockAuthorizer)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.asOf = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	suite.arAccount = domain.LedgerAccount{
		AccountID: uuid.NewString(),
		CompanyID: suite.companyID,
		Subtype:   "ar_control",
		IsActive:  true,
	}
	suite.revenueAccount = domain.LedgerAccount{
		AccountID: uuid.NewString(),
		CompanyID: suite.companyID,
		Subtype:   "revenue",
		IsActive:  true,
	}
}

func (suite *PostingTemplateServiceTestSuite) accountsMap(accounts ...domain.LedgerAccount) map[string]domain.LedgerAccount {
	out := make(map[string]domain.LedgerAccount, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out
}

func (suite *PostingTemplateServiceTestSuite) TestSaveTemplate_Success() {
	req := dto.SavePostingTemplateRequest{
		Name:          "Standard invoice",
		DocType:       "INVOICE",
		EffectiveFrom: suite.asOf,
		IsDefault:     true,
		Lines: []dto.SavePostingTemplateLineRequest{
			{Role: "ar_control", AccountID: suite.arAccount.AccountID, Required: true},
			{Role: "revenue", AccountID: suite.revenueAccount.AccountID, Required: true},
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, suite.companyID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.arAccount, suite.revenueAccount), nil).Once()
	suite.mockTemplateRepo.On("ListTemplatesByCompany", mock.Anything, suite.companyID).Return([]domain.PostingTemplate{}, nil).Once()
	suite.mockTemplateRepo.On("SaveTemplate", mock.Anything, mock.MatchedBy(func(t domain.PostingTemplate) bool {
		return t.DocType == domain.DocInvoice && t.IsDefault && t.Version == 1 && len(t.Lines) == 2
	})).Return(nil).Once()

	template, err := suite.service.SaveTemplate(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(template.IsActive)
	suite.mockTemplateRepo.AssertExpectations(suite.T())
}

func (suite *PostingTemplateServiceTestSuite) TestSaveTemplate_UnknownRole() {
	req := dto.SavePostingTemplateRequest{
		Name:          "Bad role",
		DocType:       "INVOICE",
		EffectiveFrom: suite.asOf,
		Lines: []dto.SavePostingTemplateLineRequest{
			{Role: "slush_fund", AccountID: suite.arAccount.AccountID},
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.SaveTemplate(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTemplateRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (suite *PostingTemplateServiceTestSuite) TestSaveTemplate_MissingRequiredRole() {
	req := dto.SavePostingTemplateRequest{
		Name:          "No revenue binding",
		DocType:       "INVOICE",
		EffectiveFrom: suite.asOf,
		Lines: []dto.SavePostingTemplateLineRequest{
			{Role: "ar_control", AccountID: suite.arAccount.AccountID},
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.SaveTemplate(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingTemplateServiceTestSuite) TestResolveBindings_TemplateThenOverrides() {
	overrideAccount := domain.LedgerAccount{
		AccountID: uuid.NewString(),
		CompanyID: suite.companyID,
		IsActive:  true,
	}
	template := &domain.PostingTemplate{
		TemplateID: uuid.NewString(),
		CompanyID:  suite.companyID,
		DocType:    domain.DocInvoice,
		IsDefault:  true,
		IsActive:   true,
		Lines: []domain.PostingTemplateLine{
			{Role: domain.RoleARControl, AccountID: suite.arAccount.AccountID},
			{Role: domain.RoleRevenue, AccountID: suite.revenueAccount.AccountID},
		},
	}

	suite.mockTemplateRepo.On("FindEffectiveDefault", mock.Anything, suite.companyID, domain.DocInvoice, suite.asOf).Return(template, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, suite.companyID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.arAccount, overrideAccount), nil).Once()

	binding, err := suite.service.ResolveBindings(context.Background(), suite.companyID, domain.DocInvoice, suite.asOf,
		map[string]string{"revenue": overrideAccount.AccountID})

	suite.Require().NoError(err)
	suite.Equal(suite.arAccount.AccountID, binding[domain.RoleARControl])
	// Override beats the template line.
	suite.Equal(overrideAccount.AccountID, binding[domain.RoleRevenue])
}

func (suite *PostingTemplateServiceTestSuite) TestResolveBindings_SubtypeFallback() {
	suite.mockTemplateRepo.On("FindEffectiveDefault", mock.Anything, suite.companyID, domain.DocInvoice, suite.asOf).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("ListAccountsByCompany", mock.Anything, suite.companyID).
		Return([]domain.LedgerAccount{suite.arAccount, suite.revenueAccount}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, suite.companyID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.arAccount, suite.revenueAccount), nil).Once()

	binding, err := suite.service.ResolveBindings(context.Background(), suite.companyID, domain.DocInvoice, suite.asOf, nil)

	suite.Require().NoError(err)
	suite.Equal(suite.arAccount.AccountID, binding[domain.RoleARControl])
	suite.Equal(suite.revenueAccount.AccountID, binding[domain.RoleRevenue])
}

func (suite *PostingTemplateServiceTestSuite) TestResolveBindings_UnboundRequiredRole() {
	suite.mockTemplateRepo.On("FindEffectiveDefault", mock.Anything, suite.companyID, domain.DocInvoice, suite.asOf).
		Return(nil, apperrors.ErrNotFound).Once()
	// Chart has no revenue-subtyped account.
	suite.mockAccountRepo.On("ListAccountsByCompany", mock.Anything, suite.companyID).
		Return([]domain.LedgerAccount{suite.arAccount}, nil).Once()

	_, err := suite.service.ResolveBindings(context.Background(), suite.companyID, domain.DocInvoice, suite.asOf, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingTemplateServiceTestSuite) TestResolveBindings_InactiveBoundAccount() {
	inactive := suite.revenueAccount
	inactive.IsActive = false
	template := &domain.PostingTemplate{
		TemplateID: uuid.NewString(),
		CompanyID:  suite.companyID,
		DocType:    domain.DocInvoice,
		Lines: []domain.PostingTemplateLine{
			{Role: domain.RoleARControl, AccountID: suite.arAccount.AccountID},
			{Role: domain.RoleRevenue, AccountID: inactive.AccountID},
		},
	}

	suite.mockTemplateRepo.On("FindEffectiveDefault", mock.Anything, suite.companyID, domain.DocInvoice, suite.asOf).Return(template, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, suite.companyID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.arAccount, inactive), nil).Once()

	_, err := suite.service.ResolveBindings(context.Background(), suite.companyID, domain.DocInvoice, suite.asOf, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func TestPostingTemplateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingTemplateServiceTestSuite))
}
