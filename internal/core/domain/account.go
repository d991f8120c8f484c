package domain

// AccountType defines the fundamental accounting type of a ledger account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account naturally increases.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// DefaultNormalBalance returns the conventional normal balance for an account type.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// LedgerAccount represents a financial account within a company's chart of
// accounts. Type and NormalBalance are immutable once journal lines reference
// the account; accounts are deactivated, never deleted.
type LedgerAccount struct {
	AccountID     string        `json:"accountID"`
	CompanyID     string        `json:"companyID"`
	Code          string        `json:"code"` // user-facing account code, e.g. "1100"
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	Subtype       string        `json:"subtype"`
	NormalBalance NormalBalance `json:"normalBalance"`
	CurrencyCode  string        `json:"currencyCode"`
	Description   string        `json:"description"`
	IsActive      bool          `json:"isActive"`
	AuditFields
}
