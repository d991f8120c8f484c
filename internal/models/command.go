package models

import "time"

// IdempotencyRecord is the DB shape of an idempotency key row.
type IdempotencyRecord struct {
	RecordID       string    `db:"record_id"`
	UserID         string    `db:"user_id"`
	CompanyID      string    `db:"company_id"`
	Action         string    `db:"action"`
	IdempotencyKey string    `db:"idempotency_key"`
	RequestBody    []byte    `db:"request_body"`
	ResponseBody   []byte    `db:"response_body"`
	StatusCode     int       `db:"status_code"`
	CreatedAt      time.Time `db:"created_at"`
}

// AuditLogEntry is the DB shape of an audit log row.
type AuditLogEntry struct {
	AuditID        string    `db:"audit_id"`
	UserID         string    `db:"user_id"`
	CompanyID      string    `db:"company_id"`
	Action         string    `db:"action"`
	Params         []byte    `db:"params"`
	Result         []byte    `db:"result"`
	IdempotencyKey string    `db:"idempotency_key"`
	CreatedAt      time.Time `db:"created_at"`
}
