package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	"github.com/rakibulmuhajir/haasib/internal/models"
)

type PgxIdempotencyRepository struct {
	BaseRepository
}

// newPgxIdempotencyRepository creates a new repository for idempotency records.
func newPgxIdempotencyRepository(pool *pgxpool.Pool) portsrepo.IdempotencyRepositoryFacade {
	return &PgxIdempotencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.IdempotencyRepositoryFacade = (*PgxIdempotencyRepository)(nil)

// FindRecord returns the stored record for the key tuple or
// apperrors.ErrNotFound.
func (r *PgxIdempotencyRepository) FindRecord(ctx context.Context, userID, companyID, action, key string) (*domain.IdempotencyRecord, error) {
	query := `
		SELECT record_id, user_id, company_id, action, idempotency_key, request_body, response_body, status_code, created_at
		FROM idempotency_keys
		WHERE user_id = $1 AND company_id = $2 AND action = $3 AND idempotency_key = $4;
	`
	var m models.IdempotencyRecord
	err := r.Pool.QueryRow(ctx, query, userID, companyID, action, key).Scan(
		&m.RecordID,
		&m.UserID,
		&m.CompanyID,
		&m.Action,
		&m.IdempotencyKey,
		&m.RequestBody,
		&m.ResponseBody,
		&m.StatusCode,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find idempotency record for action "+action, err)
	}

	record := domain.IdempotencyRecord{
		RecordID:       m.RecordID,
		UserID:         m.UserID,
		CompanyID:      m.CompanyID,
		Action:         m.Action,
		IdempotencyKey: m.IdempotencyKey,
		RequestBody:    json.RawMessage(m.RequestBody),
		ResponseBody:   json.RawMessage(m.ResponseBody),
		StatusCode:     m.StatusCode,
		CreatedAt:      m.CreatedAt,
	}
	return &record, nil
}

// SaveRecord persists a record after successful command execution. A
// concurrent save of the same tuple maps to apperrors.ErrDuplicate.
func (r *PgxIdempotencyRepository) SaveRecord(ctx context.Context, record domain.IdempotencyRecord) error {
	query := `
		INSERT INTO idempotency_keys (record_id, user_id, company_id, action, idempotency_key, request_body, response_body, status_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		record.RecordID,
		record.UserID,
		record.CompanyID,
		record.Action,
		record.IdempotencyKey,
		[]byte(record.RequestBody),
		[]byte(record.ResponseBody),
		record.StatusCode,
		record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: idempotency key already recorded for action %s", apperrors.ErrDuplicate, record.Action)
		}
		return apperrors.NewAppError(500, "failed to insert idempotency record for action "+record.Action, err)
	}
	return nil
}

// PgxAuditLogRepository writes audit entries on the shared pool but outside
// any business transaction, so a failed audit write can never roll back the
// command it describes.
type PgxAuditLogRepository struct {
	BaseRepository
}

// newPgxAuditLogRepository creates a new repository for audit log entries.
func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepositoryFacade {
	return &PgxAuditLogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

// SaveAuditLogEntry appends one audit row. The table is append-only; there
// are no update or delete paths.
func (r *PgxAuditLogRepository) SaveAuditLogEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (audit_id, user_id, company_id, action, params, result, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.AuditID,
		entry.UserID,
		entry.CompanyID,
		entry.Action,
		[]byte(entry.Params),
		[]byte(entry.Result),
		entry.IdempotencyKey,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit log entry for action "+entry.Action, err)
	}
	return nil
}
