package dto

import (
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
)

// CreateAccountRequest creates a ledger account.
type CreateAccountRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	AccountType  string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Subtype      string `json:"subtype"`
	// NormalBalance defaults to the conventional side for the account type
	// when omitted.
	NormalBalance string `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
	CurrencyCode  string `json:"currencyCode" binding:"required,len=3"`
	Description   string `json:"description"`
}

// UpdateAccountRequest updates mutable account fields. Type and normal
// balance are immutable once lines reference the account.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Subtype     *string `json:"subtype"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse is the API shape of a ledger account.
type AccountResponse struct {
	AccountID     string `json:"accountID"`
	CompanyID     string `json:"companyID"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	AccountType   string `json:"accountType"`
	Subtype       string `json:"subtype,omitempty"`
	NormalBalance string `json:"normalBalance"`
	CurrencyCode  string `json:"currencyCode"`
	Description   string `json:"description,omitempty"`
	IsActive      bool   `json:"isActive"`
}

// ToAccountResponse converts a domain account to its API shape.
func ToAccountResponse(a *domain.LedgerAccount) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		CompanyID:     a.CompanyID,
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		Subtype:       a.Subtype,
		NormalBalance: string(a.NormalBalance),
		CurrencyCode:  a.CurrencyCode,
		Description:   a.Description,
		IsActive:      a.IsActive,
	}
}
