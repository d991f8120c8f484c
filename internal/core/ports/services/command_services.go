package services

import (
	"context"
	"encoding/json"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	"github.com/rakibulmuhajir/haasib/internal/dto"
)

// CommandHandler executes one named command. Params arrive as the raw JSON
// the caller supplied; the handler owns decoding and validation.
type CommandHandler func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error)

// CommandSvcFacade wraps every state-changing command with idempotency
// checking and best-effort audit logging.
type CommandSvcFacade interface {
	// Execute runs the named command at most once per
	// (user, company, action, idempotencyKey). A replay returns 409 without
	// re-executing. An empty key disables deduplication for the call.
	Execute(ctx context.Context, actor domain.ActorContext, action string, params json.RawMessage, idempotencyKey string) (dto.CommandResult, int)
	// Register binds an action name to its handler. Registration happens at
	// wiring time; Execute rejects unknown actions with 404.
	Register(action string, handler CommandHandler)
}
