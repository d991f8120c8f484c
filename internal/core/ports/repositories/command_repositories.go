package repositories

import (
	"context"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
)

// IdempotencyRepositoryFacade defines persistence for idempotency records.
type IdempotencyRepositoryFacade interface {
	// FindRecord returns the stored record for the key tuple or
	// apperrors.ErrNotFound.
	FindRecord(ctx context.Context, userID, companyID, action, key string) (*domain.IdempotencyRecord, error)
	// SaveRecord persists a record after successful command execution. A
	// concurrent save of the same tuple maps to apperrors.ErrDuplicate.
	SaveRecord(ctx context.Context, record domain.IdempotencyRecord) error
}

// AuditLogRepositoryFacade defines persistence for audit log entries. Writes
// run on their own connection, independent of any business transaction, so a
// failed audit write can never roll back the command it describes.
type AuditLogRepositoryFacade interface {
	SaveAuditLogEntry(ctx context.Context, entry domain.AuditLogEntry) error
}
