package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"intellibiz-backend/config"
	"intellibiz-backend/controllers"
	"intellibiz-backend/metrics"
	"intellibiz-backend/policy"
	"intellibiz-backend/utils"
)

func SetupRouter(cfg *config.Config, h *controllers.Handler, tokens *utils.TokenManager, users utils.UserFinder) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authn := utils.AuthMiddleware(tokens, users)
	can := utils.RequireCapability

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.GoogleLogin())
		auth.POST("/facebook", h.FacebookLogin())

		auth.GET("/me", authn, utils.RequireAuth(), h.Me)
	}

	api := r.Group("/api")
	api.Use(authn)
	{
		// Business routes
		businesses := api.Group("/businesses")
		{
			businesses.GET("", h.GetBusinesses)
			businesses.POST("", can(policy.BusinessSubmit), h.CreateBusiness)
			businesses.GET("/:id", h.GetBusiness)
			businesses.PUT("/:id", utils.RequireAuth(), h.UpdateBusiness)
			businesses.DELETE("/:id", utils.RequireAuth(), h.DeleteBusiness)
			businesses.PATCH("/:id/approve", can(policy.BusinessModerate), h.ApproveBusiness)
			businesses.PATCH("/:id/reject", can(policy.BusinessModerate), h.RejectBusiness)
			businesses.PATCH("/:id/verify", can(policy.BusinessModerate), h.VerifyBusiness)
			businesses.GET("/:id/services", h.GetBusinessServices)
			businesses.GET("/:id/reviews", h.GetBusinessReviews)
		}

		// Service routes
		services := api.Group("/services")
		{
			services.GET("", h.GetServices)
			services.POST("", can(policy.ServiceManage), h.CreateService)
			services.GET("/:id", h.GetService)
			services.PUT("/:id", can(policy.ServiceManage), h.UpdateService)
			services.DELETE("/:id", can(policy.ServiceManage), h.DeleteService)
		}

		// Appointment routes
		appointments := api.Group("/appointments", utils.RequireAuth())
		{
			appointments.GET("", h.GetAppointments)
			appointments.POST("", can(policy.AppointmentBook), h.CreateAppointment)
			appointments.GET("/:id", h.GetAppointment)
			appointments.PATCH("/:id/status", h.UpdateAppointmentStatus)
			appointments.DELETE("/:id", can(policy.AppointmentDelete), h.DeleteAppointment)
		}

		// Review routes
		reviews := api.Group("/reviews")
		{
			reviews.GET("", utils.RequireAuth(), h.GetReviews)
			reviews.POST("", can(policy.ReviewWrite), h.CreateReview)
			reviews.GET("/:id", h.GetReview)
			reviews.DELETE("/:id", utils.RequireAuth(), h.DeleteReview)
			reviews.PATCH("/:id/approve", can(policy.ReviewModerate), h.ApproveReview())
			reviews.PATCH("/:id/reject", can(policy.ReviewModerate), h.RejectReview())
			reviews.PATCH("/:id/flag", can(policy.ReviewModerate), h.FlagReview)
			reviews.PATCH("/:id/unflag", can(policy.ReviewModerate), h.UnflagReview())
		}

		// Message routes
		messages := api.Group("/messages", can(policy.MessageSend))
		{
			messages.GET("", h.GetMessages)
			messages.POST("", h.SendMessage)
			messages.GET("/unread-count", h.GetUnreadCount)
			messages.GET("/conversations/:userId", h.GetConversation)
			messages.PATCH("/:id/read", h.MarkMessageRead)
			messages.DELETE("/:id", h.DeleteMessage)
		}

		// User routes
		accounts := api.Group("/users", utils.RequireAuth())
		{
			accounts.GET("", can(policy.UserManage), h.GetUsers)
			accounts.GET("/:id", h.GetUser)
			accounts.PUT("/:id", h.UpdateUser)
			accounts.DELETE("/:id", can(policy.UserManage), h.DeleteUser)
		}

		// Settings routes
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", can(policy.SettingsManage), h.UpdateSettings)

		// Admin routes
		admin := api.Group("/admin", can(policy.AnalyticsView))
		{
			admin.GET("/analytics", h.GetAnalytics)
			admin.GET("/reminders", h.GetReminderLogs)
		}
	}

	return r
}
