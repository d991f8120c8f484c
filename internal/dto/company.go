package dto

import "github.com/rakibulmuhajir/haasib/internal/core/domain"

// CreateCompanyRequest creates a company with the creator as owner.
type CreateCompanyRequest struct {
	Name                string `json:"name" binding:"required"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode" binding:"required,len=3"`
}

// AddUserToCompanyRequest grants a user a role in a company.
type AddUserToCompanyRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=OWNER MEMBER READONLY"`
}

// CompanyResponse is the API shape of a company.
type CompanyResponse struct {
	CompanyID           string  `json:"companyID"`
	Name                string  `json:"name"`
	DefaultCurrencyCode string  `json:"defaultCurrencyCode"`
	DefaultTaxPresetID  *string `json:"defaultTaxPresetID,omitempty"`
}

// ToCompanyResponse converts a domain company to its API shape.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:           c.CompanyID,
		Name:                c.Name,
		DefaultCurrencyCode: c.DefaultCurrencyCode,
		DefaultTaxPresetID:  c.DefaultTaxPresetID,
	}
}
