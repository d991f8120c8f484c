package domain

// UserCompanyRole defines the role a user holds within a company.
type UserCompanyRole string

const (
	RoleOwner    UserCompanyRole = "OWNER"
	RoleMember   UserCompanyRole = "MEMBER"
	RoleReadOnly UserCompanyRole = "READONLY"
)

// CanPerform reports whether a role satisfies the required role.
func (r UserCompanyRole) CanPerform(required UserCompanyRole) bool {
	rank := map[UserCompanyRole]int{RoleReadOnly: 1, RoleMember: 2, RoleOwner: 3}
	return rank[r] >= rank[required]
}

// Company is the tenant boundary. Every ledger row carries its CompanyID.
type Company struct {
	CompanyID           string `json:"companyID"`
	Name                string `json:"name"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
	// DefaultTaxPresetID optionally points at the tax preset applied when no
	// explicit rule matches a taxable line.
	DefaultTaxPresetID *string `json:"defaultTaxPresetID,omitempty"`
	AuditFields
}

// UserCompany links a user to a company with a role.
type UserCompany struct {
	UserID    string          `json:"userID"`
	CompanyID string          `json:"companyID"`
	Role      UserCompanyRole `json:"role"`
	AuditFields
}
