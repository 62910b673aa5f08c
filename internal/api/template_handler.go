package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/service"
)

// TemplateHandler serves the block template library. Templates are created
// from a plan block and applied to a plan through PlanHandler.
type TemplateHandler struct {
	planService service.PlanService
}

func NewTemplateHandler(planService service.PlanService) *TemplateHandler {
	return &TemplateHandler{planService: planService}
}

func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	templates, err := h.planService.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	if templates == nil {
		c.JSON(http.StatusOK, []domain.BlockTemplate{}) // Return empty JSON array, not null
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.planService.DeleteTemplate(c.Request.Context(), c.Param("templateId")); err != nil {
		respondError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}
