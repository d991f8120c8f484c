package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/rakibulmuhajir/haasib/internal/middleware"
)

// commandHandler dispatches idempotent state-changing commands.
type commandHandler struct {
	commandService portssvc.CommandSvcFacade
}

func newCommandHandler(commandService portssvc.CommandSvcFacade) *commandHandler {
	return &commandHandler{commandService: commandService}
}

// execute godoc
// @Summary Execute a named command
// @Description Runs the action at most once per (user, company, action, X-Idempotency-Key); a replay returns 409 without re-executing
// @Tags commands
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param X-Idempotency-Key header string false "Caller-supplied idempotency key"
// @Param command body dto.CommandRequest true "Action and params"
// @Success 200 {object} dto.CommandResult
// @Failure 404 {object} dto.CommandResult "Unknown action"
// @Failure 409 {object} dto.CommandResult "Duplicate request"
// @Failure 422 {object} dto.CommandResult "Validation failure"
// @Router /companies/{companyID}/commands [post]
func (h *commandHandler) execute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	var req dto.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for command", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.CommandResult{OK: false, Message: bindErrorMessage(err)})
		return
	}

	actor := domain.ActorContext{UserID: userID, CompanyID: companyID}
	idempotencyKey := c.GetHeader("X-Idempotency-Key")

	result, status := h.commandService.Execute(c.Request.Context(), actor, req.Action, req.Params, idempotencyKey)
	c.JSON(status, result)
}

// registerCommandRoutes registers the command dispatch route under a company
// scope.
func registerCommandRoutes(group *gin.RouterGroup, commandService portssvc.CommandSvcFacade) {
	h := newCommandHandler(commandService)

	group.POST("/commands", h.execute)
}
