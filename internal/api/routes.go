package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/metrics"
	"github.com/duorhuang/aquaflow-pro/internal/service"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth         service.AuthService
	Plans        service.PlanService
	Athletes     service.AthleteService
	Performances service.PerformanceService
	Feedback     service.FeedbackService
	Insights     service.InsightService
}

// NewRouter returns a gin engine with recovery, request logging and request metrics.
func NewRouter(m *metrics.Manager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), MetricsMiddleware(m))
	return router
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.Athletes)
	planHandler := NewPlanHandler(svc.Plans, svc.Insights)
	templateHandler := NewTemplateHandler(svc.Plans)
	athleteHandler := NewAthleteHandler(svc.Athletes, svc.Performances)
	recordHandler := NewRecordHandler(svc.Athletes, svc.Performances, svc.Feedback, svc.Insights)

	coachOnly := RoleMiddleware(domain.RoleCoach)
	selfOrCoach := SelfOrCoachMiddleware()

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", authHandler.Me)

		// --- Plans ---
		plans := protected.Group("/plans")
		{
			plans.GET("", planHandler.GetPlans)
			plans.GET("/:planId", planHandler.GetPlan)

			plans.POST("", coachOnly, planHandler.CreatePlan)
			plans.PUT("/:planId", coachOnly, planHandler.UpdatePlan)
			plans.DELETE("/:planId", coachOnly, planHandler.DeletePlan)
			plans.POST("/:planId/star", coachOnly, planHandler.ToggleStar)
			plans.POST("/:planId/export", coachOnly, planHandler.ExportPlan)
			plans.GET("/:planId/insight", coachOnly, planHandler.GetPlanInsight)

			plans.POST("/:planId/blocks", coachOnly, planHandler.AddBlock)
			plans.DELETE("/:planId/blocks/:blockId", coachOnly, planHandler.RemoveBlock)
			plans.POST("/:planId/blocks/:blockId/duplicate", coachOnly, planHandler.DuplicateBlock)
			plans.POST("/:planId/blocks/:blockId/template", coachOnly, planHandler.SaveTemplate)
			plans.POST("/:planId/blocks/:blockId/items", coachOnly, planHandler.AddItem)
			plans.PUT("/:planId/blocks/:blockId/items/:itemId", coachOnly, planHandler.UpdateItem)
			plans.DELETE("/:planId/blocks/:blockId/items/:itemId", coachOnly, planHandler.RemoveItem)
			plans.PUT("/:planId/blocks/:blockId/items/:itemId/segments", coachOnly, planHandler.SetSegments)
			plans.POST("/:planId/templates/:templateId", coachOnly, planHandler.ApplyTemplate)
		}

		// --- Templates ---
		templates := protected.Group("/templates")
		{
			templates.GET("", templateHandler.GetTemplates)
			templates.DELETE("/:templateId", coachOnly, templateHandler.DeleteTemplate)
		}

		// --- Swimmers ---
		swimmers := protected.Group("/swimmers")
		{
			swimmers.GET("", athleteHandler.GetSwimmers)
			swimmers.GET("/:swimmerId", athleteHandler.GetSwimmer)

			swimmers.POST("", coachOnly, athleteHandler.AddSwimmer)
			swimmers.PUT("/:swimmerId", coachOnly, athleteHandler.UpdateSwimmer)
			swimmers.DELETE("/:swimmerId", coachOnly, athleteHandler.DeleteSwimmer)
			swimmers.POST("/:swimmerId/xp", coachOnly, athleteHandler.AdjustXP)

			swimmers.POST("/:swimmerId/checkin", selfOrCoach, athleteHandler.CheckIn)
			swimmers.PUT("/:swimmerId/profile", selfOrCoach, athleteHandler.UpdateProfile)
			swimmers.GET("/:swimmerId/performances", selfOrCoach, athleteHandler.GetSwimmerPerformances)
		}

		// --- Records ---
		protected.GET("/attendance", recordHandler.GetAttendance)
		protected.GET("/performances", recordHandler.GetPerformances)
		protected.POST("/performances", recordHandler.RecordPerformance)
		protected.GET("/feedbacks", recordHandler.GetFeedbacks)
		protected.POST("/feedbacks", recordHandler.SubmitFeedback)

		protected.GET("/stats/team", coachOnly, recordHandler.GetTeamStats)
	}
}
