package services

import (
	"context"
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/dto"
)

// PostingTemplateSvcFacade manages posting templates.
type PostingTemplateSvcFacade interface {
	SaveTemplate(ctx context.Context, companyID string, req dto.SavePostingTemplateRequest, userID string) (*domain.PostingTemplate, error)
	GetTemplateByID(ctx context.Context, companyID string, templateID string, userID string) (*domain.PostingTemplate, error)
	ListTemplates(ctx context.Context, companyID string, userID string) ([]domain.PostingTemplate, error)
	// ResolveBindings produces the role->account map for a document type:
	// per-document overrides first, then the company's effective default
	// template, then the built-in minimal mapping from the company's default
	// accounts.
	ResolveBindings(ctx context.Context, companyID string, docType domain.DocType, asOf time.Time, overrides map[string]string) (domain.RoleBinding, error)
}

// PostingSvcFacade turns business documents into balanced journal entries.
type PostingSvcFacade interface {
	PreviewInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*dto.PostingPreviewResponse, error)
	PostInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.JournalEntry, error)
	PostBill(ctx context.Context, companyID string, req dto.CreateBillRequest, userID string) (*domain.JournalEntry, error)
	PostCreditNote(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.JournalEntry, error)
	PreviewPayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*dto.PostingPreviewResponse, error)
	PostPayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*domain.JournalEntry, error)
}
