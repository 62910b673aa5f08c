package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/service"
)

type AthleteHandler struct {
	athleteService     service.AthleteService
	performanceService service.PerformanceService
}

func NewAthleteHandler(athleteService service.AthleteService, performanceService service.PerformanceService) *AthleteHandler {
	return &AthleteHandler{athleteService: athleteService, performanceService: performanceService}
}

// SwimmerRequest is the coach's swimmer form. An empty password keeps the current one.
type SwimmerRequest struct {
	Name       string               `json:"name" binding:"required"`
	Group      domain.Group         `json:"group" binding:"required"`
	Status     domain.SwimmerStatus `json:"status"`
	Readiness  int                  `json:"readiness"`
	Username   string               `json:"username"`
	Password   string               `json:"password" binding:"omitempty,min=6"`
	MainStroke domain.Stroke        `json:"mainStroke"`
	BestTimes  map[string]string    `json:"bestTimes"`
	Injuries   []string             `json:"injuries"`
	InjuryNote string               `json:"injuryNote"`
}

func (r SwimmerRequest) toInput() service.SwimmerInput {
	return service.SwimmerInput{
		Name:       r.Name,
		Group:      r.Group,
		Status:     r.Status,
		Readiness:  r.Readiness,
		Username:   r.Username,
		Password:   r.Password,
		MainStroke: r.MainStroke,
		BestTimes:  r.BestTimes,
		Injuries:   r.Injuries,
		InjuryNote: r.InjuryNote,
	}
}

// ProfileRequest is the athlete's own check-in form.
type ProfileRequest struct {
	Readiness  *int              `json:"readiness"`
	BestTimes  map[string]string `json:"bestTimes"`
	Injuries   []string          `json:"injuries"`
	InjuryNote string            `json:"injuryNote"`
}

type AdjustXPRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *AthleteHandler) GetSwimmers(c *gin.Context) {
	swimmers, err := h.athleteService.ListSwimmers(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	if swimmers == nil {
		c.JSON(http.StatusOK, []domain.Swimmer{})
		return
	}
	c.JSON(http.StatusOK, swimmers)
}

func (h *AthleteHandler) GetSwimmer(c *gin.Context) {
	sw, err := h.athleteService.GetSwimmer(c.Request.Context(), c.Param("swimmerId"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, sw)
}

// AddSwimmer godoc
// @Summary Add a swimmer to the team
// @Tags Swimmers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param swimmer body SwimmerRequest true "Swimmer"
// @Success 201 {object} domain.Swimmer
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Username already taken"
// @Router /swimmers [post]
func (h *AthleteHandler) AddSwimmer(c *gin.Context) {
	var req SwimmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	sw, err := h.athleteService.AddSwimmer(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err, sw)
		return
	}
	c.JSON(http.StatusCreated, sw)
}

func (h *AthleteHandler) UpdateSwimmer(c *gin.Context) {
	var req SwimmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	sw, err := h.athleteService.UpdateSwimmer(c.Request.Context(), c.Param("swimmerId"), req.toInput())
	if err != nil {
		respondError(c, err, sw)
		return
	}
	c.JSON(http.StatusOK, sw)
}

func (h *AthleteHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	sw, err := h.athleteService.UpdateProfile(c.Request.Context(), c.Param("swimmerId"), service.ProfileInput{
		Readiness:  req.Readiness,
		BestTimes:  req.BestTimes,
		Injuries:   req.Injuries,
		InjuryNote: req.InjuryNote,
	})
	if err != nil {
		respondError(c, err, sw)
		return
	}
	c.JSON(http.StatusOK, sw)
}

func (h *AthleteHandler) DeleteSwimmer(c *gin.Context) {
	if err := h.athleteService.DeleteSwimmer(c.Request.Context(), c.Param("swimmerId")); err != nil {
		respondError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckIn godoc
// @Summary Check a swimmer in for today
// @Description Awards XP and advances the streak. A repeat on the same day returns applied=false and changes nothing.
// @Tags Swimmers
// @Produce json
// @Security BearerAuth
// @Param swimmerId path string true "Swimmer ID"
// @Success 200 {object} engine.CheckInResult
// @Failure 404 {object} gin.H "Swimmer not found"
// @Failure 503 {object} gin.H "Computed but not stored"
// @Router /swimmers/{swimmerId}/checkin [post]
func (h *AthleteHandler) CheckIn(c *gin.Context) {
	res, err := h.athleteService.CheckIn(c.Request.Context(), c.Param("swimmerId"))
	if err != nil {
		respondError(c, err, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AthleteHandler) AdjustXP(c *gin.Context) {
	var req AdjustXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	sw, err := h.athleteService.AdjustXP(c.Request.Context(), c.Param("swimmerId"), req.Delta)
	if err != nil {
		respondError(c, err, sw)
		return
	}
	c.JSON(http.StatusOK, sw)
}

func (h *AthleteHandler) GetSwimmerPerformances(c *gin.Context) {
	recs, err := h.performanceService.ListBySwimmer(c.Request.Context(), c.Param("swimmerId"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	if recs == nil {
		recs = []domain.PerformanceRecord{}
	}
	c.JSON(http.StatusOK, recs)
}
