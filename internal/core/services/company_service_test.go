package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/core/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CompanyServiceTestSuite struct {
	suite.Suite
	mockCompanyRepo  *MockCompanyRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.CompanySvcFacade
	companyID        string
	userID           string
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewCompanyService(suite.mockCompanyRepo, suite.mockCurrencyRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *CompanyServiceTestSuite) membership(role domain.UserCompanyRole) *domain.UserCompany {
	return &domain.UserCompany{
		UserID:    suite.userID,
		CompanyID: suite.companyID,
		Role:      role,
	}
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_SufficientRole() {
	suite.mockCompanyRepo.On("FindUserCompanyRole", mock.Anything, suite.userID, suite.companyID).
		Return(suite.membership(domain.RoleOwner), nil).Once()

	err := suite.service.AuthorizeUserAction(context.Background(), suite.userID, suite.companyID, domain.RoleMember)

	suite.Require().NoError(err)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_InsufficientRole() {
	suite.mockCompanyRepo.On("FindUserCompanyRole", mock.Anything, suite.userID, suite.companyID).
		Return(suite.membership(domain.RoleReadOnly), nil).Once()

	err := suite.service.AuthorizeUserAction(context.Background(), suite.userID, suite.companyID, domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_NonMemberGetsNotFound() {
	suite.mockCompanyRepo.On("FindUserCompanyRole", mock.Anything, suite.userID, suite.companyID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(context.Background(), suite.userID, suite.companyID, domain.RoleReadOnly)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_CreatorBecomesOwner() {
	req := dto.CreateCompanyRequest{Name: "Acme", DefaultCurrencyCode: "USD"}
	usd := &domain.Currency{CurrencyCode: "USD", DecimalPlaces: 2}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(usd, nil).Once()
	suite.mockCompanyRepo.On("SaveCompany", mock.Anything, mock.AnythingOfType("domain.Company")).Return(nil).Once()
	suite.mockCompanyRepo.On("AddUserToCompany", mock.Anything, mock.MatchedBy(func(m domain.UserCompany) bool {
		return m.UserID == suite.userID && m.Role == domain.RoleOwner
	})).Return(nil).Once()

	company, err := suite.service.CreateCompany(context.Background(), req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("Acme", company.Name)
	suite.Equal("USD", company.DefaultCurrencyCode)
	suite.mockCompanyRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_UnknownCurrency() {
	req := dto.CreateCompanyRequest{Name: "Acme", DefaultCurrencyCode: "ZZZ"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateCompany(context.Background(), req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompanyServiceTestSuite) TestAddUserToCompany_RequiresOwner() {
	req := dto.AddUserToCompanyRequest{UserID: uuid.NewString(), Role: "MEMBER"}

	suite.mockCompanyRepo.On("FindUserCompanyRole", mock.Anything, suite.userID, suite.companyID).
		Return(suite.membership(domain.RoleMember), nil).Once()

	err := suite.service.AddUserToCompany(context.Background(), suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "AddUserToCompany", mock.Anything, mock.Anything)
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
