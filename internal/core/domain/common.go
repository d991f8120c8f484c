package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// ActorContext identifies who is executing a command and for which company.
// It is passed explicitly into every command handler; there is no implicit
// ambient user.
type ActorContext struct {
	UserID    string
	CompanyID string
}
