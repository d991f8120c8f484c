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

type companySvc struct {
	BaseService
	companyRepo  portsrepo.CompanyRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

var _ portssvc.CompanySvcFacade = (*companySvc)(nil)

// NewCompanyService creates a new company service instance.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, currencyRepo portsrepo.CurrencyRepositoryFacade) *companySvc {
	return &companySvc{
		companyRepo:  companyRepo,
		currencyRepo: currencyRepo,
	}
}

// AuthorizeUserAction checks whether the user holds at least the required role
// in the company. Non-members get ErrNotFound so company existence is not
// leaked to outsiders.
func (s *companySvc) AuthorizeUserAction(ctx context.Context, userID, companyID string, required domain.UserCompanyRole) error {
	membership, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		return err
	}
	if !membership.Role.CanPerform(required) {
		s.LogWarn(ctx, "User role insufficient for action",
			slog.String("user_id", userID),
			slog.String("company_id", companyID),
			slog.String("role", string(membership.Role)),
			slog.String("required_role", string(required)))
		return fmt.Errorf("%w: role %s does not permit this action", apperrors.ErrForbidden, membership.Role)
	}
	return nil
}

func (s *companySvc) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.DefaultCurrencyCode); err != nil {
		return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, req.DefaultCurrencyCode)
	}

	now := time.Now()
	company := domain.Company{
		CompanyID:           uuid.NewString(),
		Name:                req.Name,
		DefaultCurrencyCode: req.DefaultCurrencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company")
		return nil, err
	}

	membership := domain.UserCompany{
		UserID:      creatorUserID,
		CompanyID:   company.CompanyID,
		Role:        domain.RoleOwner,
		AuditFields: company.AuditFields,
	}
	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add creator as company owner", slog.String("company_id", company.CompanyID))
		return nil, err
	}

	s.LogInfo(ctx, "Company created", slog.String("company_id", company.CompanyID), slog.String("name", company.Name))
	return &company, nil
}

func (s *companySvc) GetCompanyByID(ctx context.Context, companyID string, userID string) (*domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

func (s *companySvc) AddUserToCompany(ctx context.Context, companyID string, req dto.AddUserToCompanyRequest, actingUserID string) error {
	if err := s.AuthorizeUserAction(ctx, actingUserID, companyID, domain.RoleOwner); err != nil {
		return err
	}

	now := time.Now()
	membership := domain.UserCompany{
		UserID:    req.UserID,
		CompanyID: companyID,
		Role:      domain.UserCompanyRole(req.Role),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingUserID,
		},
	}
	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to company",
			slog.String("company_id", companyID), slog.String("target_user_id", req.UserID))
		return err
	}
	s.LogInfo(ctx, "User added to company",
		slog.String("company_id", companyID),
		slog.String("target_user_id", req.UserID),
		slog.String("role", req.Role))
	return nil
}
