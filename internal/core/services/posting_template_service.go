package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
)

type postingTemplateSvc struct {
	BaseService
	templateRepo portsrepo.PostingTemplateRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
}

var _ portssvc.PostingTemplateSvcFacade = (*postingTemplateSvc)(nil)

// NewPostingTemplateService creates a new posting template service instance.
func NewPostingTemplateService(
	templateRepo portsrepo.PostingTemplateRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
) *postingTemplateSvc {
	return &postingTemplateSvc{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		templateRepo: templateRepo,
		accountRepo:  accountRepo,
	}
}

// SaveTemplate validates and stores a posting template. Role names must come
// from the known set, every required role for the document type must be bound,
// and every bound account must be an active account of the company.
func (s *postingTemplateSvc) SaveTemplate(ctx context.Context, companyID string, req dto.SavePostingTemplateRequest, userID string) (*domain.PostingTemplate, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	docType := domain.DocType(req.DocType)
	templateID := uuid.NewString()
	bound := make(map[domain.AccountRole]bool, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	lines := make([]domain.PostingTemplateLine, len(req.Lines))
	for i, lr := range req.Lines {
		role := domain.AccountRole(lr.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: unknown account role %q", apperrors.ErrValidation, lr.Role)
		}
		lines[i] = domain.PostingTemplateLine{
			TemplateLineID: uuid.NewString(),
			TemplateID:     templateID,
			Role:           role,
			AccountID:      lr.AccountID,
			Precedence:     lr.Precedence,
			Required:       lr.Required,
		}
		bound[role] = true
		accountIDs = append(accountIDs, lr.AccountID)
	}

	for _, required := range domain.RequiredRolesFor(docType) {
		if !bound[required] {
			return nil, fmt.Errorf("%w: template for %s must bind role %s", apperrors.ErrValidation, docType, required)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
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

	now := time.Now()
	template := domain.PostingTemplate{
		TemplateID:    templateID,
		CompanyID:     companyID,
		Name:          req.Name,
		DocType:       docType,
		Version:       s.nextVersion(ctx, companyID, docType),
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
		IsDefault:     req.IsDefault,
		IsActive:      true,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		s.LogError(ctx, err, "Failed to save posting template", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Posting template saved",
		slog.String("template_id", templateID),
		slog.String("doc_type", string(docType)),
		slog.Bool("is_default", template.IsDefault))
	return &template, nil
}

func (s *postingTemplateSvc) nextVersion(ctx context.Context, companyID string, docType domain.DocType) int {
	templates, err := s.templateRepo.ListTemplatesByCompany(ctx, companyID)
	if err != nil {
		return 1
	}
	max := 0
	for _, t := range templates {
		if t.DocType == docType && t.Version > max {
			max = t.Version
		}
	}
	return max + 1
}

func (s *postingTemplateSvc) GetTemplateByID(ctx context.Context, companyID string, templateID string, userID string) (*domain.PostingTemplate, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.CompanyID != companyID {
		return nil, fmt.Errorf("%w: posting template %s", apperrors.ErrNotFound, templateID)
	}
	return template, nil
}

func (s *postingTemplateSvc) ListTemplates(ctx context.Context, companyID string, userID string) ([]domain.PostingTemplate, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.templateRepo.ListTemplatesByCompany(ctx, companyID)
}

// ResolveBindings produces the role -> account map a document posting will
// use. Per-document overrides win, then the effective default template's lines
// in precedence order, then a conventional fallback that matches account
// subtypes against role names. A required role left unbound is an error.
func (s *postingTemplateSvc) ResolveBindings(ctx context.Context, companyID string, docType domain.DocType, asOf time.Time, overrides map[string]string) (domain.RoleBinding, error) {
	binding := domain.RoleBinding{}

	template, err := s.templateRepo.FindEffectiveDefault(ctx, companyID, docType, asOf)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if template != nil {
		templateLines := make([]domain.PostingTemplateLine, len(template.Lines))
		copy(templateLines, template.Lines)
		sort.SliceStable(templateLines, func(i, j int) bool {
			return templateLines[i].Precedence < templateLines[j].Precedence
		})
		for _, line := range templateLines {
			binding[line.Role] = line.AccountID
		}
	}

	for roleName, accountID := range overrides {
		role := domain.AccountRole(roleName)
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: unknown account role %q in overrides", apperrors.ErrValidation, roleName)
		}
		binding[role] = accountID
	}

	required := domain.RequiredRolesFor(docType)
	missing := make([]domain.AccountRole, 0)
	for _, role := range required {
		if _, ok := binding[role]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		if err := s.fillFromSubtypes(ctx, companyID, binding, missing); err != nil {
			return nil, err
		}
	}

	for _, role := range required {
		if _, ok := binding[role]; !ok {
			return nil, fmt.Errorf("%w: no account bound for role %s on %s", apperrors.ErrValidation, role, docType)
		}
	}

	if err := s.validateBoundAccounts(ctx, companyID, binding); err != nil {
		return nil, err
	}
	return binding, nil
}

// fillFromSubtypes is the last-resort binding: an active account whose subtype
// equals the role name serves that role. Companies that seed their chart with
// conventional subtypes never need an explicit template for simple documents.
func (s *postingTemplateSvc) fillFromSubtypes(ctx context.Context, companyID string, binding domain.RoleBinding, missing []domain.AccountRole) error {
	accounts, err := s.accountRepo.ListAccountsByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	for _, role := range missing {
		for _, account := range accounts {
			if account.IsActive && account.Subtype == string(role) {
				binding[role] = account.AccountID
				break
			}
		}
	}
	return nil
}

func (s *postingTemplateSvc) validateBoundAccounts(ctx context.Context, companyID string, binding domain.RoleBinding) error {
	accountIDs := make([]string, 0, len(binding))
	for _, id := range binding {
		accountIDs = append(accountIDs, id)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return err
	}
	for role, id := range binding {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s bound to role %s", apperrors.ErrInvalidAccount, id, role)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s bound to role %s is inactive", apperrors.ErrInvalidAccount, id, role)
		}
	}
	return nil
}
