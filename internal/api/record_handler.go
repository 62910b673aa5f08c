package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/service"
)

// RecordHandler serves the append-only collections and team statistics.
type RecordHandler struct {
	athleteService     service.AthleteService
	performanceService service.PerformanceService
	feedbackService    service.FeedbackService
	insightService     service.InsightService
}

func NewRecordHandler(
	athleteService service.AthleteService,
	performanceService service.PerformanceService,
	feedbackService service.FeedbackService,
	insightService service.InsightService,
) *RecordHandler {
	return &RecordHandler{
		athleteService:     athleteService,
		performanceService: performanceService,
		feedbackService:    feedbackService,
		insightService:     insightService,
	}
}

type PerformanceRequest struct {
	SwimmerID string           `json:"swimmerId"`
	Event     domain.SwimEvent `json:"event" binding:"required"`
	Time      string           `json:"time" binding:"required"`
	Date      string           `json:"date"`
	MeetName  string           `json:"meetName"`
	Notes     string           `json:"notes"`
}

type FeedbackRequest struct {
	SwimmerID string `json:"swimmerId"`
	PlanID    string `json:"planId" binding:"required"`
	RPE       int    `json:"rpe" binding:"required"`
	Soreness  int    `json:"soreness" binding:"required"`
	Comments  string `json:"comments"`
}

// actingSwimmer resolves whose record a request is about. Athletes always act
// for themselves; coaches must name the swimmer. It aborts and returns false
// when no swimmer can be resolved.
func actingSwimmer(c *gin.Context, requested string) (string, bool) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return "", false
	}
	if role.IsCoach() {
		if requested == "" {
			abortWithError(c, http.StatusBadRequest, "Validation error: swimmerId is required")
			return "", false
		}
		return requested, true
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return "", false
	}
	if requested != "" && requested != userID {
		abortWithError(c, http.StatusForbidden, "Access denied: athletes can only act for themselves")
		return "", false
	}
	return userID, true
}

// scopeFilter returns the swimmer a listing must be limited to: the caller
// for athletes, the optional ?swimmerId= for coaches.
func scopeFilter(c *gin.Context) string {
	role, _ := getUserRoleFromContext(c)
	if role.IsCoach() {
		return c.Query("swimmerId")
	}
	userID, _ := getUserIDFromContext(c)
	return userID
}

func (h *RecordHandler) GetAttendance(c *gin.Context) {
	records, err := h.athleteService.ListAttendance(c.Request.Context(), scopeFilter(c))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *RecordHandler) GetPerformances(c *gin.Context) {
	var (
		recs []domain.PerformanceRecord
		err  error
	)
	if swimmerID := scopeFilter(c); swimmerID != "" {
		recs, err = h.performanceService.ListBySwimmer(c.Request.Context(), swimmerID)
	} else {
		recs, err = h.performanceService.ListPerformances(c.Request.Context())
	}
	if err != nil {
		respondError(c, err, nil)
		return
	}
	if recs == nil {
		recs = []domain.PerformanceRecord{}
	}
	c.JSON(http.StatusOK, recs)
}

// RecordPerformance godoc
// @Summary Record a timed result
// @Description IsPB and improvement are computed against the swimmer's earlier results for the event.
// @Tags Performances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param performance body PerformanceRequest true "Result"
// @Success 201 {object} domain.PerformanceRecord
// @Failure 400 {object} gin.H "Invalid time, event or date"
// @Failure 404 {object} gin.H "Swimmer not found"
// @Router /performances [post]
func (h *RecordHandler) RecordPerformance(c *gin.Context) {
	var req PerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	swimmerID, ok := actingSwimmer(c, req.SwimmerID)
	if !ok {
		return
	}
	rec, err := h.performanceService.RecordPerformance(c.Request.Context(), service.PerformanceInput{
		SwimmerID: swimmerID,
		Event:     req.Event,
		Time:      req.Time,
		Date:      req.Date,
		MeetName:  req.MeetName,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err, rec)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *RecordHandler) GetFeedbacks(c *gin.Context) {
	var (
		fbs []domain.Feedback
		err error
	)
	if planID := c.Query("planId"); planID != "" {
		fbs, err = h.feedbackService.ListByPlan(c.Request.Context(), planID)
	} else {
		fbs, err = h.feedbackService.ListFeedback(c.Request.Context())
	}
	if err != nil {
		respondError(c, err, nil)
		return
	}

	out := make([]domain.Feedback, 0, len(fbs))
	only := scopeFilter(c)
	for _, fb := range fbs {
		if only == "" || fb.SwimmerID == only {
			out = append(out, fb)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecordHandler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	swimmerID, ok := actingSwimmer(c, req.SwimmerID)
	if !ok {
		return
	}
	fb, err := h.feedbackService.SubmitFeedback(c.Request.Context(), service.FeedbackInput{
		SwimmerID: swimmerID,
		PlanID:    req.PlanID,
		RPE:       req.RPE,
		Soreness:  req.Soreness,
		Comments:  req.Comments,
	})
	if err != nil {
		respondError(c, err, fb)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

// GetTeamStats summarizes ?month=YYYY-MM, or the current month.
func (h *RecordHandler) GetTeamStats(c *gin.Context) {
	sum, err := h.insightService.TeamMonth(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, sum)
}
