package domain

import (
	"encoding/json"
	"time"
)

// IdempotencyRecord stores the outcome of a successfully executed command
// keyed by (user, company, action, key). The record is written only after the
// command succeeds; a command that fails mid-flight leaves no record, so a
// retry after a crash is not falsely treated as a duplicate.
type IdempotencyRecord struct {
	RecordID       string          `json:"recordID"`
	UserID         string          `json:"userID"`
	CompanyID      string          `json:"companyID"`
	Action         string          `json:"action"`
	IdempotencyKey string          `json:"idempotencyKey"`
	RequestBody    json.RawMessage `json:"requestBody"`
	ResponseBody   json.RawMessage `json:"responseBody"`
	StatusCode     int             `json:"statusCode"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// AuditLogEntry is an append-only record of a state-changing command. Writes
// are best-effort: a failed audit write is logged and never fails the command
// that triggered it.
type AuditLogEntry struct {
	AuditID        string          `json:"auditID"`
	UserID         string          `json:"userID"`
	CompanyID      string          `json:"companyID"`
	Action         string          `json:"action"`
	Params         json.RawMessage `json:"params"`
	Result         json.RawMessage `json:"result"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}
