package models

import "time"

// PostingTemplate is the DB shape of a posting template row.
type PostingTemplate struct {
	TemplateID    string     `db:"template_id"`
	CompanyID     string     `db:"company_id"`
	Name          string     `db:"name"`
	DocType       string     `db:"doc_type"`
	Version       int        `db:"version"`
	EffectiveFrom time.Time  `db:"effective_from"`
	EffectiveTo   *time.Time `db:"effective_to"`
	IsDefault     bool       `db:"is_default"`
	IsActive      bool       `db:"is_active"`
	AuditFields
}

// PostingTemplateLine is the DB shape of a template line row.
type PostingTemplateLine struct {
	TemplateLineID string `db:"template_line_id"`
	TemplateID     string `db:"template_id"`
	Role           string `db:"role"`
	AccountID      string `db:"account_id"`
	Precedence     int    `db:"precedence"`
	Required       bool   `db:"required"`
}
