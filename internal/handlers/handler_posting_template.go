package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/rakibulmuhajir/haasib/internal/middleware"
)

// postingTemplateHandler handles posting template management.
type postingTemplateHandler struct {
	templateService portssvc.PostingTemplateSvcFacade
}

func newPostingTemplateHandler(templateService portssvc.PostingTemplateSvcFacade) *postingTemplateHandler {
	return &postingTemplateHandler{templateService: templateService}
}

// saveTemplate godoc
// @Summary Create a posting template
// @Description Validates role bindings and versions the template per (company, doc type)
// @Tags posting-templates
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param template body dto.SavePostingTemplateRequest true "Template details"
// @Success 201 {object} dto.PostingTemplateResponse
// @Failure 422 {object} map[string]string "Unknown role or inactive account"
// @Router /companies/{companyID}/posting-templates [post]
func (h *postingTemplateHandler) saveTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	var req dto.SavePostingTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for saveTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	template, err := h.templateService.SaveTemplate(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Posting template saved", slog.String("template_id", template.TemplateID))
	c.JSON(http.StatusCreated, dto.ToPostingTemplateResponse(template))
}

// listTemplates godoc
// @Summary List the company's posting templates
// @Tags posting-templates
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {array} dto.PostingTemplateResponse
// @Router /companies/{companyID}/posting-templates [get]
func (h *postingTemplateHandler) listTemplates(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	templates, err := h.templateService.ListTemplates(c.Request.Context(), companyID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]dto.PostingTemplateResponse, len(templates))
	for i := range templates {
		resp[i] = dto.ToPostingTemplateResponse(&templates[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getTemplate godoc
// @Summary Get a posting template with its lines
// @Tags posting-templates
// @Produce json
// @Param companyID path string true "Company ID"
// @Param templateID path string true "Template ID"
// @Success 200 {object} dto.PostingTemplateResponse
// @Failure 404 {object} map[string]string "Template not found"
// @Router /companies/{companyID}/posting-templates/{templateID} [get]
func (h *postingTemplateHandler) getTemplate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	companyID := c.Param("companyID")
	templateID := c.Param("templateID")

	template, err := h.templateService.GetTemplateByID(c.Request.Context(), companyID, templateID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostingTemplateResponse(template))
}

// registerPostingTemplateRoutes registers template routes under a company scope.
func registerPostingTemplateRoutes(group *gin.RouterGroup, templateService portssvc.PostingTemplateSvcFacade) {
	h := newPostingTemplateHandler(templateService)

	templates := group.Group("/posting-templates")
	{
		templates.POST("", h.saveTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:templateID", h.getTemplate)
	}
}
