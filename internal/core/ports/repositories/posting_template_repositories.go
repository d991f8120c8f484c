package repositories

import (
	"context"
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
)

// PostingTemplateRepositoryFacade defines persistence operations for posting
// templates and their role bindings.
type PostingTemplateRepositoryFacade interface {
	// SaveTemplate inserts the template and its lines atomically. When the
	// template is marked default it clears the default flag on every other
	// template for the same (company, doc type) in the same transaction.
	SaveTemplate(ctx context.Context, template domain.PostingTemplate) error
	// FindTemplateByID returns the template with lines populated.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.PostingTemplate, error)
	// FindEffectiveDefault returns the active default template for
	// (company, doc type) effective at asOf, lines populated, or
	// apperrors.ErrNotFound.
	FindEffectiveDefault(ctx context.Context, companyID string, docType domain.DocType, asOf time.Time) (*domain.PostingTemplate, error)
	ListTemplatesByCompany(ctx context.Context, companyID string) ([]domain.PostingTemplate, error)
	DeactivateTemplate(ctx context.Context, templateID string, userID string, now time.Time) error
}
