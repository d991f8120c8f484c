package dto

import "encoding/json"

// CommandRequest is the envelope accepted by the command dispatch endpoint.
// The idempotency key travels in the X-Idempotency-Key header, supplied by
// the caller, never generated server side.
type CommandRequest struct {
	Action string          `json:"action" binding:"required"`
	Params json.RawMessage `json:"params" binding:"required"`
}

// CommandResult is the uniform response envelope of every command.
type CommandResult struct {
	OK      bool              `json:"ok"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Data    any               `json:"data,omitempty"`
}
