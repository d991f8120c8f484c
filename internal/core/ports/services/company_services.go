package services

import (
	"context"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/dto"
)

// CompanyAuthorizerSvc checks membership roles. Every tenant-scoped service
// consults this before touching company data.
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction returns nil when the user holds at least the
	// required role in the company; apperrors.ErrNotFound when the user is
	// not a member (existence is obscured); apperrors.ErrForbidden otherwise.
	AuthorizeUserAction(ctx context.Context, userID, companyID string, required domain.UserCompanyRole) error
}

// CompanySvcFacade manages companies and memberships.
type CompanySvcFacade interface {
	CompanyAuthorizerSvc
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, companyID string, userID string) (*domain.Company, error)
	AddUserToCompany(ctx context.Context, companyID string, req dto.AddUserToCompanyRequest, actingUserID string) error
}
