package dto

import (
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SavePostingTemplateLineRequest binds one role to one account.
type SavePostingTemplateLineRequest struct {
	Role       string `json:"role" binding:"required"`
	AccountID  string `json:"accountID" binding:"required"`
	Precedence int    `json:"precedence"`
	Required   bool   `json:"required"`
}

// SavePostingTemplateRequest creates a posting template for a document type.
type SavePostingTemplateRequest struct {
	Name          string                           `json:"name" binding:"required"`
	DocType       string                           `json:"docType" binding:"required,oneof=INVOICE BILL PAYMENT CREDIT_NOTE ALLOCATION"`
	EffectiveFrom time.Time                        `json:"effectiveFrom" binding:"required"`
	EffectiveTo   *time.Time                       `json:"effectiveTo"`
	IsDefault     bool                             `json:"isDefault"`
	Lines         []SavePostingTemplateLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PostingTemplateResponse is the API shape of a posting template.
type PostingTemplateResponse struct {
	TemplateID    string                        `json:"templateID"`
	CompanyID     string                        `json:"companyID"`
	Name          string                        `json:"name"`
	DocType       string                        `json:"docType"`
	Version       int                           `json:"version"`
	EffectiveFrom time.Time                     `json:"effectiveFrom"`
	EffectiveTo   *time.Time                    `json:"effectiveTo,omitempty"`
	IsDefault     bool                          `json:"isDefault"`
	IsActive      bool                          `json:"isActive"`
	Lines         []PostingTemplateLineResponse `json:"lines,omitempty"`
}

// PostingTemplateLineResponse is the API shape of a template line.
type PostingTemplateLineResponse struct {
	Role       string `json:"role"`
	AccountID  string `json:"accountID"`
	Precedence int    `json:"precedence"`
	Required   bool   `json:"required"`
}

// ToPostingTemplateResponse converts a domain template to its API shape.
func ToPostingTemplateResponse(t *domain.PostingTemplate) PostingTemplateResponse {
	resp := PostingTemplateResponse{
		TemplateID:    t.TemplateID,
		CompanyID:     t.CompanyID,
		Name:          t.Name,
		DocType:       string(t.DocType),
		Version:       t.Version,
		EffectiveFrom: t.EffectiveFrom,
		EffectiveTo:   t.EffectiveTo,
		IsDefault:     t.IsDefault,
		IsActive:      t.IsActive,
	}
	for _, l := range t.Lines {
		resp.Lines = append(resp.Lines, PostingTemplateLineResponse{
			Role:       string(l.Role),
			AccountID:  l.AccountID,
			Precedence: l.Precedence,
			Required:   l.Required,
		})
	}
	return resp
}

// DocumentLine is one line of an invoice, bill or credit note.
type DocumentLine struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Discount    decimal.Decimal `json:"discount"`
}

// CreateInvoiceRequest posts an invoice to the ledger. AccountOverrides lets
// a single document override specific role bindings; overrides win over the
// company's default template.
type CreateInvoiceRequest struct {
	InvoiceID        string            `json:"invoiceID"`
	Date             time.Time         `json:"date" binding:"required"`
	CurrencyCode     string            `json:"currencyCode" binding:"required,len=3"`
	Reference        string            `json:"reference"`
	CustomerType     string            `json:"customerType"`
	CountryCode      string            `json:"countryCode"`
	Lines            []DocumentLine    `json:"lines" binding:"required,min=1,dive"`
	TaxMode          string            `json:"taxMode" binding:"omitempty,oneof=INCLUSIVE EXCLUSIVE"`
	TaxRuleIDs       []string          `json:"taxRuleIDs"`
	AccountOverrides map[string]string `json:"accountOverrides"`
}

// CreateBillRequest posts a vendor bill (the AP mirror of an invoice).
type CreateBillRequest = CreateInvoiceRequest

// CreatePaymentRequest posts a customer payment against AR.
type CreatePaymentRequest struct {
	PaymentID        string           `json:"paymentID"`
	Date             time.Time        `json:"date" binding:"required"`
	Amount           decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode     string           `json:"currencyCode" binding:"required,len=3"`
	Method           string           `json:"method" binding:"required,oneof=cash bank"`
	Reference        string           `json:"reference"`
	CustomRate       *decimal.Decimal `json:"customRate"`
	AccountOverrides map[string]string `json:"accountOverrides"`
}

// PostingPreviewResponse is the unpersisted set of lines a document would
// produce, plus the totals that went into them.
type PostingPreviewResponse struct {
	DocType   string                      `json:"docType"`
	Subtotal  decimal.Decimal             `json:"subtotal"`
	TaxAmount decimal.Decimal             `json:"taxAmount"`
	Total     decimal.Decimal             `json:"total"`
	Lines     []PostingPreviewLineResponse `json:"lines"`
}

// PostingPreviewLineResponse is one unposted preview line.
type PostingPreviewLineResponse struct {
	AccountID    string          `json:"accountID"`
	Role         string          `json:"role"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// ToPostingPreviewLineResponses converts preview lines to their API shape.
func ToPostingPreviewLineResponses(lines []domain.PostingPreviewLine) []PostingPreviewLineResponse {
	out := make([]PostingPreviewLineResponse, len(lines))
	for i, l := range lines {
		out[i] = PostingPreviewLineResponse{
			AccountID:    l.AccountID,
			Role:         string(l.Role),
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
		}
	}
	return out
}
