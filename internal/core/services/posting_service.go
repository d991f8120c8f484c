package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/shopspring/decimal"
)

type postingSvc struct {
	BaseService
	templateSvc  portssvc.PostingTemplateSvcFacade
	taxSvc       portssvc.TaxSvcFacade
	ledgerSvc    portssvc.LedgerSvcFacade
	fxSvc        portssvc.ExchangeRateSvcFacade
	companyRepo  portsrepo.CompanyRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

var _ portssvc.PostingSvcFacade = (*postingSvc)(nil)

// NewPostingService creates a new posting service instance.
func NewPostingService(
	templateSvc portssvc.PostingTemplateSvcFacade,
	taxSvc portssvc.TaxSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	fxSvc portssvc.ExchangeRateSvcFacade,
	companyRepo portsrepo.CompanyRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
) *postingSvc {
	return &postingSvc{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		templateSvc:  templateSvc,
		taxSvc:       taxSvc,
		ledgerSvc:    ledgerSvc,
		fxSvc:        fxSvc,
		companyRepo:  companyRepo,
		currencyRepo: currencyRepo,
	}
}

// documentTotals is the rounded outcome of running a document's lines through
// tax calculation.
type documentTotals struct {
	subtotal decimal.Decimal
	tax      decimal.Decimal
	total    decimal.Decimal
}

func (s *postingSvc) PreviewInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*dto.PostingPreviewResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	lines, totals, err := s.buildDocumentLines(ctx, companyID, domain.DocInvoice, req)
	if err != nil {
		return nil, err
	}
	return previewResponse(domain.DocInvoice, lines, totals), nil
}

func (s *postingSvc) PostInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.JournalEntry, error) {
	return s.postDocument(ctx, companyID, domain.DocInvoice, domain.SourceInvoice, req.InvoiceID, req, userID)
}

func (s *postingSvc) PostBill(ctx context.Context, companyID string, req dto.CreateBillRequest, userID string) (*domain.JournalEntry, error) {
	return s.postDocument(ctx, companyID, domain.DocBill, domain.SourceBill, req.InvoiceID, req, userID)
}

func (s *postingSvc) PostCreditNote(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.JournalEntry, error) {
	return s.postDocument(ctx, companyID, domain.DocCreditNote, domain.SourceCreditNote, req.InvoiceID, req, userID)
}

// postDocument builds the journal lines for a document, creates the entry as
// a draft and immediately posts it. The duplicate-source guard fires at post
// time so the same document can never reach the ledger twice.
func (s *postingSvc) postDocument(ctx context.Context, companyID string, docType domain.DocType, sourceType domain.SourceType, sourceID string, req dto.CreateInvoiceRequest, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	lines, totals, err := s.buildDocumentLines(ctx, companyID, docType, req)
	if err != nil {
		return nil, err
	}

	if sourceID == "" {
		sourceID = uuid.NewString()
	}

	entryReq := dto.CreateJournalEntryRequest{
		Date:         req.Date,
		Description:  fmt.Sprintf("%s %s", docType, sourceID),
		Reference:    req.Reference,
		CurrencyCode: req.CurrencyCode,
		SourceType:   string(sourceType),
		SourceID:     sourceID,
		Lines:        toEntryLines(lines),
	}

	entry, err := s.ledgerSvc.CreateJournalEntry(ctx, companyID, entryReq, userID)
	if err != nil {
		return nil, err
	}
	posted, err := s.ledgerSvc.PostJournalEntry(ctx, companyID, entry.EntryID, userID)
	if err != nil {
		return nil, err
	}
	posted.Lines = entry.Lines

	s.LogInfo(ctx, "Document posted to ledger",
		slog.String("doc_type", string(docType)),
		slog.String("source_id", sourceID),
		slog.String("entry_id", posted.EntryID),
		slog.String("total", totals.total.String()))
	return posted, nil
}

// buildDocumentLines resolves role bindings, runs every document line through
// tax calculation and produces the balanced preview lines for the document
// type. Amounts are rounded to the document currency's decimal places; the
// receivable or payable side carries subtotal plus tax exactly so the entry
// balances by construction.
func (s *postingSvc) buildDocumentLines(ctx context.Context, companyID string, docType domain.DocType, req dto.CreateInvoiceRequest) ([]domain.PostingPreviewLine, documentTotals, error) {
	binding, err := s.templateSvc.ResolveBindings(ctx, companyID, docType, req.Date, req.AccountOverrides)
	if err != nil {
		return nil, documentTotals{}, err
	}

	mode := domain.TaxMode(req.TaxMode)
	if mode == "" {
		mode = domain.TaxExclusive
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, line := range req.Lines {
		taxable := domain.TaxableLine{
			Amount:       line.Amount,
			Discount:     line.Discount,
			CustomerType: req.CustomerType,
			CountryCode:  req.CountryCode,
			Date:         req.Date,
		}
		result, err := s.taxSvc.CalculateLineTax(ctx, companyID, taxable, mode, req.TaxRuleIDs)
		if err != nil {
			return nil, documentTotals{}, err
		}
		subtotal = subtotal.Add(result.TaxableAmount)
		tax = tax.Add(result.TaxAmount)
	}

	places := s.decimalPlaces(ctx, req.CurrencyCode)
	totals := documentTotals{
		subtotal: subtotal.Round(places),
		tax:      tax.Round(places),
	}
	totals.total = totals.subtotal.Add(totals.tax)
	if !totals.total.IsPositive() {
		return nil, documentTotals{}, fmt.Errorf("%w: document total must be positive", apperrors.ErrValidation)
	}

	lines, err := assembleDocumentLines(docType, binding, totals)
	if err != nil {
		return nil, documentTotals{}, err
	}
	return lines, totals, nil
}

// assembleDocumentLines lays out the debits and credits for one document type.
// Invoices debit the receivable and credit revenue and tax payable; credit
// notes are the mirror image; bills credit the payable and debit expense and
// tax receivable.
func assembleDocumentLines(docType domain.DocType, binding domain.RoleBinding, totals documentTotals) ([]domain.PostingPreviewLine, error) {
	var controlRole, bodyRole, taxRole domain.AccountRole
	var controlIsDebit bool

	switch docType {
	case domain.DocInvoice:
		controlRole, bodyRole, taxRole = domain.RoleARControl, domain.RoleRevenue, domain.RoleTaxPayable
		controlIsDebit = true
	case domain.DocCreditNote:
		controlRole, bodyRole, taxRole = domain.RoleARControl, domain.RoleRevenue, domain.RoleTaxPayable
		controlIsDebit = false
	case domain.DocBill:
		controlRole, bodyRole, taxRole = domain.RoleAPControl, domain.RoleExpense, domain.RoleTaxReceivable
		controlIsDebit = false
	default:
		return nil, fmt.Errorf("%w: unsupported document type %s", apperrors.ErrValidation, docType)
	}

	lines := []domain.PostingPreviewLine{
		side(binding[controlRole], controlRole, totals.total, controlIsDebit),
		side(binding[bodyRole], bodyRole, totals.subtotal, !controlIsDebit),
	}
	if totals.tax.IsPositive() {
		taxAccount, ok := binding[taxRole]
		if !ok {
			return nil, fmt.Errorf("%w: no account bound for role %s", apperrors.ErrValidation, taxRole)
		}
		lines = append(lines, side(taxAccount, taxRole, totals.tax, !controlIsDebit))
	}
	return lines, nil
}

func side(accountID string, role domain.AccountRole, amount decimal.Decimal, debit bool) domain.PostingPreviewLine {
	line := domain.PostingPreviewLine{
		AccountID:   accountID,
		Role:        role,
		Description: string(role),
	}
	if debit {
		line.DebitAmount = amount
	} else {
		line.CreditAmount = amount
	}
	return line
}

func (s *postingSvc) PreviewPayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*dto.PostingPreviewResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	lines, amount, _, err := s.buildPaymentLines(ctx, companyID, req)
	if err != nil {
		return nil, err
	}
	totals := documentTotals{subtotal: amount, tax: decimal.Zero, total: amount}
	return previewResponse(domain.DocPayment, lines, totals), nil
}

// PostPayment records a customer payment: the settlement account (cash or
// bank) is debited and accounts receivable credited. Foreign-currency
// payments are converted to the company currency first, with an optional
// caller-supplied rate.
func (s *postingSvc) PostPayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	lines, amount, currencyCode, err := s.buildPaymentLines(ctx, companyID, req)
	if err != nil {
		return nil, err
	}

	sourceID := req.PaymentID
	if sourceID == "" {
		sourceID = uuid.NewString()
	}

	entryReq := dto.CreateJournalEntryRequest{
		Date:         req.Date,
		Description:  fmt.Sprintf("%s %s", domain.DocPayment, sourceID),
		Reference:    req.Reference,
		CurrencyCode: currencyCode,
		SourceType:   string(domain.SourcePayment),
		SourceID:     sourceID,
		Lines:        toEntryLines(lines),
	}

	entry, err := s.ledgerSvc.CreateJournalEntry(ctx, companyID, entryReq, userID)
	if err != nil {
		return nil, err
	}
	posted, err := s.ledgerSvc.PostJournalEntry(ctx, companyID, entry.EntryID, userID)
	if err != nil {
		return nil, err
	}
	posted.Lines = entry.Lines

	s.LogInfo(ctx, "Payment posted to ledger",
		slog.String("payment_id", sourceID),
		slog.String("entry_id", posted.EntryID),
		slog.String("amount", amount.String()))
	return posted, nil
}

func (s *postingSvc) buildPaymentLines(ctx context.Context, companyID string, req dto.CreatePaymentRequest) ([]domain.PostingPreviewLine, decimal.Decimal, string, error) {
	if !req.Amount.IsPositive() {
		return nil, decimal.Zero, "", fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	binding, err := s.templateSvc.ResolveBindings(ctx, companyID, domain.DocPayment, req.Date, req.AccountOverrides)
	if err != nil {
		return nil, decimal.Zero, "", err
	}

	settlementRole := domain.RoleBank
	if req.Method == "cash" {
		settlementRole = domain.RoleCash
	}
	settlementAccount, ok := binding[settlementRole]
	if !ok {
		return nil, decimal.Zero, "", fmt.Errorf("%w: no account bound for role %s", apperrors.ErrValidation, settlementRole)
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, decimal.Zero, "", err
	}

	amount := req.Amount
	currencyCode := company.DefaultCurrencyCode
	if req.CurrencyCode != company.DefaultCurrencyCode {
		amount, err = s.fxSvc.ConvertCurrency(ctx, req.Amount, req.CurrencyCode, company.DefaultCurrencyCode, req.Date, req.CustomRate)
		if err != nil {
			return nil, decimal.Zero, "", err
		}
	}

	lines := []domain.PostingPreviewLine{
		side(settlementAccount, settlementRole, amount, true),
		side(binding[domain.RoleARControl], domain.RoleARControl, amount, false),
	}
	return lines, amount, currencyCode, nil
}

func (s *postingSvc) decimalPlaces(ctx context.Context, currencyCode string) int32 {
	if currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err == nil {
		return currency.DecimalPlaces
	}
	return 2
}

func toEntryLines(lines []domain.PostingPreviewLine) []dto.CreateJournalLineRequest {
	out := make([]dto.CreateJournalLineRequest, len(lines))
	for i, l := range lines {
		out[i] = dto.CreateJournalLineRequest{
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
		}
	}
	return out
}

func previewResponse(docType domain.DocType, lines []domain.PostingPreviewLine, totals documentTotals) *dto.PostingPreviewResponse {
	return &dto.PostingPreviewResponse{
		DocType:   string(docType),
		Subtotal:  totals.subtotal,
		TaxAmount: totals.tax,
		Total:     totals.total,
		Lines:     dto.ToPostingPreviewLineResponses(lines),
	}
}
