package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/engine"
	"github.com/duorhuang/aquaflow-pro/internal/service"
)

type PlanHandler struct {
	planService    service.PlanService
	insightService service.InsightService
}

func NewPlanHandler(planService service.PlanService, insightService service.InsightService) *PlanHandler {
	return &PlanHandler{planService: planService, insightService: insightService}
}

// PlanRequest is the body of create and update. Blocks may be empty.
type PlanRequest struct {
	Date          string            `json:"date" binding:"required"`
	StartTime     string            `json:"startTime"`
	EndTime       string            `json:"endTime"`
	Group         domain.Group      `json:"group" binding:"required"`
	Blocks        []domain.Block    `json:"blocks"`
	Focus         string            `json:"focus"`
	Status        domain.PlanStatus `json:"status"`
	CoachNotes    string            `json:"coachNotes"`
	TargetedNotes map[string]string `json:"targetedNotes"`
}

func (r PlanRequest) toInput() service.PlanInput {
	return service.PlanInput{
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Group:         r.Group,
		Blocks:        r.Blocks,
		Focus:         r.Focus,
		Status:        r.Status,
		CoachNotes:    r.CoachNotes,
		TargetedNotes: r.TargetedNotes,
	}
}

type SegmentsRequest struct {
	Segments []domain.Segment `json:"segments"`
}

type SaveTemplateRequest struct {
	Name string `json:"name"`
}

// forCaller hides other swimmers' targeted notes from athletes.
func forCaller(c *gin.Context, p domain.TrainingPlan) domain.TrainingPlan {
	role, _ := getUserRoleFromContext(c)
	if role.IsCoach() {
		return p
	}
	userID, _ := getUserIDFromContext(c)
	return engine.NotesFor(p, userID)
}

// GetPlans godoc
// @Summary List all plans, starred first then newest first
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.TrainingPlan
// @Router /plans [get]
func (h *PlanHandler) GetPlans(c *gin.Context) {
	plans, err := h.planService.ListVisiblePlans(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	out := make([]domain.TrainingPlan, 0, len(plans))
	for _, p := range plans {
		out = append(out, forCaller(c, p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.GetPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, forCaller(c, *plan))
}

// CreatePlan godoc
// @Summary Create a training plan
// @Description TotalDistance is computed from the blocks; any value sent is ignored.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body PlanRequest true "Plan"
// @Success 201 {object} domain.TrainingPlan
// @Failure 400 {object} gin.H "Invalid plan"
// @Failure 503 {object} gin.H "Computed but not stored"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.CreatePlan(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err, plan)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.UpdatePlan(c.Request.Context(), c.Param("planId"), req.toInput())
	if err != nil {
		respondError(c, err, plan)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.planService.DeletePlan(c.Request.Context(), c.Param("planId")); err != nil {
		respondError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) ToggleStar(c *gin.Context) {
	plan, err := h.planService.ToggleStar(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err, plan)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Blocks and items ---

// planResult writes the updated plan of a block or item edit.
func planResult(c *gin.Context, status int, plan *domain.TrainingPlan, err error) {
	if err != nil {
		respondError(c, err, plan)
		return
	}
	c.JSON(status, plan)
}

func (h *PlanHandler) AddBlock(c *gin.Context) {
	var block domain.Block
	if err := c.ShouldBindJSON(&block); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.AddBlock(c.Request.Context(), c.Param("planId"), block)
	planResult(c, http.StatusCreated, plan, err)
}

func (h *PlanHandler) RemoveBlock(c *gin.Context) {
	plan, err := h.planService.RemoveBlock(c.Request.Context(), c.Param("planId"), c.Param("blockId"))
	planResult(c, http.StatusOK, plan, err)
}

func (h *PlanHandler) DuplicateBlock(c *gin.Context) {
	plan, err := h.planService.DuplicateBlock(c.Request.Context(), c.Param("planId"), c.Param("blockId"))
	planResult(c, http.StatusCreated, plan, err)
}

func (h *PlanHandler) AddItem(c *gin.Context) {
	var item domain.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.AddItem(c.Request.Context(), c.Param("planId"), c.Param("blockId"), item)
	planResult(c, http.StatusCreated, plan, err)
}

func (h *PlanHandler) UpdateItem(c *gin.Context) {
	var item domain.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.UpdateItem(c.Request.Context(), c.Param("planId"), c.Param("blockId"), c.Param("itemId"), item)
	planResult(c, http.StatusOK, plan, err)
}

func (h *PlanHandler) RemoveItem(c *gin.Context) {
	plan, err := h.planService.RemoveItem(c.Request.Context(), c.Param("planId"), c.Param("blockId"), c.Param("itemId"))
	planResult(c, http.StatusOK, plan, err)
}

func (h *PlanHandler) SetSegments(c *gin.Context) {
	var req SegmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.SetSegments(c.Request.Context(), c.Param("planId"), c.Param("blockId"), c.Param("itemId"), req.Segments)
	planResult(c, http.StatusOK, plan, err)
}

// --- Templates bound to a plan ---

func (h *PlanHandler) SaveTemplate(c *gin.Context) {
	var req SaveTemplateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	tmpl, err := h.planService.SaveTemplate(c.Request.Context(), c.Param("planId"), c.Param("blockId"), req.Name)
	if err != nil {
		respondError(c, err, tmpl)
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

func (h *PlanHandler) ApplyTemplate(c *gin.Context) {
	plan, err := h.planService.ApplyTemplate(c.Request.Context(), c.Param("planId"), c.Param("templateId"))
	planResult(c, http.StatusOK, plan, err)
}

// ExportPlan uploads the plan to object storage and returns a download link.
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	export, err := h.planService.ExportPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, export)
}

func (h *PlanHandler) GetPlanInsight(c *gin.Context) {
	alerts, err := h.insightService.PlanInsight(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"planId": c.Param("planId"), "alerts": alerts})
}
