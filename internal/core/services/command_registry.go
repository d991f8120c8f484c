package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
)

// decodeParams unmarshals command params into out, mapping malformed JSON to
// a validation error so the caller gets a 422 instead of a 500.
func decodeParams(params json.RawMessage, out any) error {
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: malformed command params: %v", apperrors.ErrValidation, err)
	}
	return nil
}

type entryIDParams struct {
	EntryID string `json:"entryID"`
}

type voidEntryParams struct {
	EntryID string `json:"entryID"`
	Reason  string `json:"reason"`
}

type accountIDParams struct {
	AccountID string `json:"accountID"`
}

type updateAccountParams struct {
	AccountID string `json:"accountID"`
	dto.UpdateAccountRequest
}

// RegisterCommandHandlers binds every dispatchable action to its service
// call. The command service wraps each with idempotency and audit.
func RegisterCommandHandlers(container *portssvc.ServiceContainer) {
	cmd := container.Command

	cmd.Register("journal.create", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var req dto.CreateJournalEntryRequest
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entry, err := container.Ledger.CreateJournalEntry(ctx, actor.CompanyID, req, actor.UserID)
		if err != nil {
			return nil, err
		}
		return dto.ToJournalEntryResponse(entry), nil
	})

	cmd.Register("journal.post", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var p entryIDParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		entry, err := container.Ledger.PostJournalEntry(ctx, actor.CompanyID, p.EntryID, actor.UserID)
		if err != nil {
			return nil, err
		}
		return dto.ToJournalEntryResponse(entry), nil
	})

	cmd.Register("journal.void", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var p voidEntryParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if p.Reason == "" {
			return nil, fmt.Errorf("%w: void reason is required", apperrors.ErrValidation)
		}
		entry, err := container.Ledger.VoidJournalEntry(ctx, actor.CompanyID, p.EntryID, p.Reason, actor.UserID)
		if err != nil {
			return nil, err
		}
		return dto.ToJournalEntryResponse(entry), nil
	})

	cmd.Register("account.create", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var req dto.CreateAccountRequest
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		account, err := container.Account.CreateAccount(ctx, actor.CompanyID, req, actor.UserID)
		if err != nil {
			return nil, err
		}
		return dto.ToAccountResponse(account), nil
	})

	cmd.Register("account.update", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var p updateAccountParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		account, err := container.Account.UpdateAccount(ctx, actor.CompanyID, p.AccountID, p.UpdateAccountRequest, actor.UserID)
		if err != nil {
			return nil, err
		}
		return dto.ToAccountResponse(account), nil
	})

	cmd.Register("account.delete", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var p accountIDParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if err := container.Account.DeleteAccount(ctx, actor.CompanyID, p.AccountID, actor.UserID); err != nil {
			return nil, err
		}
		return nil, nil
	})

	cmd.Register("invoice.create", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var req dto.CreateInvoiceRequest
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entry, err := container.Posting.PostInvoice(ctx, actor.CompanyID, req, actor.UserID)
		if err != nil {
			return nil, err
		}
		return dto.ToJournalEntryResponse(entry), nil
	})

	cmd.Register("bill.create", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var req dto.CreateBillRequest
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entry, err := container.Posting.PostBill(ctx, actor.CompanyID, req, actor.UserID)
		if err != nil {
			return nil, err
		}
		return dto.ToJournalEntryResponse(entry), nil
	})

	cmd.Register("credit_note.create", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var req dto.CreateInvoiceRequest
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entry, err := container.Posting.PostCreditNote(ctx, actor.CompanyID, req, actor.UserID)
		if err != nil {
			return nil, err
		}
		return dto.ToJournalEntryResponse(entry), nil
	})

	cmd.Register("payment.create", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var req dto.CreatePaymentRequest
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entry, err := container.Posting.PostPayment(ctx, actor.CompanyID, req, actor.UserID)
		if err != nil {
			return nil, err
		}
		return dto.ToJournalEntryResponse(entry), nil
	})
}
