package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountRole is the closed set of abstract roles a posting template can bind
// to concrete ledger accounts. Roles are a fixed enum, never free-form
// strings; the binding to account IDs is validated at template save time.
type AccountRole string

const (
	RoleARControl     AccountRole = "ar_control"
	RoleAPControl     AccountRole = "ap_control"
	RoleRevenue       AccountRole = "revenue"
	RoleExpense       AccountRole = "expense"
	RoleTaxPayable    AccountRole = "tax_payable"
	RoleTaxReceivable AccountRole = "tax_receivable"
	RoleCash          AccountRole = "cash"
	RoleBank          AccountRole = "bank"
)

// KnownAccountRoles lists every valid role.
var KnownAccountRoles = []AccountRole{
	RoleARControl, RoleAPControl, RoleRevenue, RoleExpense,
	RoleTaxPayable, RoleTaxReceivable, RoleCash, RoleBank,
}

// IsValid reports whether the role is one of the known roles.
func (r AccountRole) IsValid() bool {
	for _, known := range KnownAccountRoles {
		if r == known {
			return true
		}
	}
	return false
}

// DocType names the kinds of business documents templates can post.
type DocType string

const (
	DocInvoice    DocType = "INVOICE"
	DocBill       DocType = "BILL"
	DocPayment    DocType = "PAYMENT"
	DocCreditNote DocType = "CREDIT_NOTE"
	DocAllocation DocType = "ALLOCATION"
)

// PostingTemplate maps account roles to ledger accounts for one document type
// of one company. At most one active default template exists per
// (company, doc type) at any instant; this is enforced at save time by
// clearing other defaults in the same transaction.
type PostingTemplate struct {
	TemplateID    string                `json:"templateID"`
	CompanyID     string                `json:"companyID"`
	Name          string                `json:"name"`
	DocType       DocType               `json:"docType"`
	Version       int                   `json:"version"`
	EffectiveFrom time.Time             `json:"effectiveFrom"`
	EffectiveTo   *time.Time            `json:"effectiveTo,omitempty"`
	IsDefault     bool                  `json:"isDefault"`
	IsActive      bool                  `json:"isActive"`
	Lines         []PostingTemplateLine `json:"lines,omitempty"`
	AuditFields
}

// PostingTemplateLine binds one role to one ledger account.
type PostingTemplateLine struct {
	TemplateLineID string      `json:"templateLineID"`
	TemplateID     string      `json:"templateID"`
	Role           AccountRole `json:"role"`
	AccountID      string      `json:"accountID"`
	Precedence     int         `json:"precedence"`
	Required       bool        `json:"required"`
}

// RoleBinding is a resolved role -> account mapping for a document posting.
type RoleBinding map[AccountRole]string

// PostingPreviewLine is one unposted line produced by resolving a document
// against a template. Pure data; nothing is persisted until the Ledger Engine
// accepts the full set.
type PostingPreviewLine struct {
	AccountID    string          `json:"accountID"`
	Role         AccountRole     `json:"role"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// RequiredRolesFor returns the roles a document type cannot post without.
func RequiredRolesFor(docType DocType) []AccountRole {
	switch docType {
	case DocInvoice, DocCreditNote:
		return []AccountRole{RoleARControl, RoleRevenue}
	case DocBill:
		return []AccountRole{RoleAPControl, RoleExpense}
	case DocPayment, DocAllocation:
		return []AccountRole{RoleARControl, RoleBank}
	default:
		return nil
	}
}
