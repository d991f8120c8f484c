package repositories

import (
	"context"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
)

// CompanyRepositoryFacade defines persistence operations for companies and
// user memberships.
type CompanyRepositoryFacade interface {
	SaveCompany(ctx context.Context, company domain.Company) error
	UpdateCompany(ctx context.Context, company domain.Company) error
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	AddUserToCompany(ctx context.Context, membership domain.UserCompany) error
	// FindUserCompanyRole returns the membership row or apperrors.ErrNotFound
	// when the user does not belong to the company.
	FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error)
}

// UserRepositoryFacade defines persistence operations for users.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
