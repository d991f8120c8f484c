package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
)

type commandSvc struct {
	BaseService
	idempotencyRepo portsrepo.IdempotencyRepositoryFacade
	auditRepo       portsrepo.AuditLogRepositoryFacade
	handlers        map[string]portssvc.CommandHandler
}

var _ portssvc.CommandSvcFacade = (*commandSvc)(nil)

// NewCommandService creates the command dispatch service. Handlers are
// registered at wiring time, before the server accepts traffic, so the map
// needs no locking.
func NewCommandService(
	idempotencyRepo portsrepo.IdempotencyRepositoryFacade,
	auditRepo portsrepo.AuditLogRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
) *commandSvc {
	return &commandSvc{
		BaseService:     BaseService{CompanyAuthorizer: authorizer},
		idempotencyRepo: idempotencyRepo,
		auditRepo:       auditRepo,
		handlers:        make(map[string]portssvc.CommandHandler),
	}
}

func (s *commandSvc) Register(action string, handler portssvc.CommandHandler) {
	s.handlers[action] = handler
}

// Execute dispatches a named command with idempotency checking and audit
// logging wrapped around it. A replayed idempotency key returns 409 without
// touching the handler. When the idempotency store itself is unreachable the
// command still runs; losing deduplication beats refusing all writes.
func (s *commandSvc) Execute(ctx context.Context, actor domain.ActorContext, action string, params json.RawMessage, idempotencyKey string) (dto.CommandResult, int) {
	handler, ok := s.handlers[action]
	if !ok {
		return dto.CommandResult{OK: false, Message: fmt.Sprintf("unknown action %q", action)}, http.StatusNotFound
	}

	dedupe := idempotencyKey != ""
	if dedupe {
		record, err := s.idempotencyRepo.FindRecord(ctx, actor.UserID, actor.CompanyID, action, idempotencyKey)
		switch {
		case err == nil:
			s.LogInfo(ctx, "Duplicate command rejected",
				slog.String("action", action),
				slog.String("idempotency_key", idempotencyKey),
				slog.String("original_record_id", record.RecordID))
			return dto.CommandResult{OK: false, Message: "duplicate request: this idempotency key was already used"}, http.StatusConflict
		case errors.Is(err, apperrors.ErrNotFound):
			// First time we see this key.
		default:
			s.LogWarn(ctx, "Idempotency lookup failed, executing without deduplication",
				slog.String("action", action),
				slog.String("error", err.Error()))
			dedupe = false
		}
	}

	data, err := handler(ctx, actor, params)
	if err != nil {
		status := apperrors.StatusCode(err)
		message := err.Error()
		if status >= 500 {
			// The wrapped cause stays in the logs; clients get the
			// caller-safe message only.
			s.LogError(ctx, err, "Command handler failed", slog.String("action", action))
			message = "Internal server error"
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Message != "" {
				message = appErr.Message
			}
		}
		result := dto.CommandResult{OK: false, Message: message}
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrUnbalancedEntry) || errors.Is(err, apperrors.ErrInvalidAccount) {
			result.Errors = map[string]string{"params": err.Error()}
		}
		return result, status
	}

	result := dto.CommandResult{OK: true, Message: "ok", Data: data}
	responseBody, marshalErr := json.Marshal(data)
	if marshalErr != nil {
		responseBody = nil
	}

	s.writeAuditEntry(ctx, actor, action, params, responseBody, idempotencyKey)

	if dedupe {
		record := domain.IdempotencyRecord{
			RecordID:       uuid.NewString(),
			UserID:         actor.UserID,
			CompanyID:      actor.CompanyID,
			Action:         action,
			IdempotencyKey: idempotencyKey,
			RequestBody:    params,
			ResponseBody:   responseBody,
			StatusCode:     http.StatusOK,
			CreatedAt:      time.Now(),
		}
		if err := s.idempotencyRepo.SaveRecord(ctx, record); err != nil {
			// The command already ran; a racing duplicate that won the insert
			// does not change that.
			s.LogWarn(ctx, "Failed to save idempotency record",
				slog.String("action", action),
				slog.String("error", err.Error()))
		}
	}

	return result, http.StatusOK
}

// writeAuditEntry appends the audit record for an executed command. The write
// is best-effort on an independent connection; failure is logged and swallowed.
func (s *commandSvc) writeAuditEntry(ctx context.Context, actor domain.ActorContext, action string, params, result json.RawMessage, idempotencyKey string) {
	entry := domain.AuditLogEntry{
		AuditID:        uuid.NewString(),
		UserID:         actor.UserID,
		CompanyID:      actor.CompanyID,
		Action:         action,
		Params:         params,
		Result:         result,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now(),
	}
	if err := s.auditRepo.SaveAuditLogEntry(ctx, entry); err != nil {
		s.LogWarn(ctx, "Failed to write audit log entry",
			slog.String("action", action),
			slog.String("error", err.Error()))
	}
}
