package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/tutorialhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/tutorialhub-backend/internal/http/middleware"
	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	TracingEnabled bool
	ServiceName    string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	CourseHandler   *httpH.CourseHandler
	JobHandler      *httpH.JobHandler
	RealtimeHandler *httpH.RealtimeHandler
	QuizHandler     *httpH.QuizHandler
	ChatHandler     *httpH.ChatHandler
	BillingHandler  *httpH.BillingHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Observe(cfg.Log, cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	// Not found when metrics are disabled.
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	api := r.Group("/api")
	if cfg.BillingHandler != nil {
		api.GET("/plans", cfg.BillingHandler.ListPlans)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	} else {
		protected.Use(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": gin.H{"message": "authentication is not configured", "code": "auth_unavailable"},
			})
		})
	}

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
	}

	// Courses
	if cfg.CourseHandler != nil {
		protected.POST("/courses", cfg.CourseHandler.CreateCourse)
		protected.GET("/courses", cfg.CourseHandler.ListUserCourses)
		protected.GET("/courses/explore", cfg.CourseHandler.Explore)
		protected.GET("/courses/:courseId", cfg.CourseHandler.GetCourse)
		protected.DELETE("/courses/:courseId", cfg.CourseHandler.DeleteCourse)
		protected.PATCH("/courses/:courseId/banner", cfg.CourseHandler.UpdateBanner)
		protected.POST("/courses/:courseId/generate", cfg.CourseHandler.GenerateContent)
		protected.GET("/courses/:courseId/generate", cfg.CourseHandler.LatestGeneration)
	}

	// Quiz
	if cfg.QuizHandler != nil {
		protected.POST("/courses/:courseId/quiz-attempts", cfg.QuizHandler.SubmitAttempt)
		protected.GET("/courses/:courseId/quiz-attempts", cfg.QuizHandler.ListAttempts)
	}

	// Jobs
	if cfg.JobHandler != nil {
		protected.GET("/jobs/:id", cfg.JobHandler.GetJob)
		protected.POST("/jobs/:id/cancel", cfg.JobHandler.CancelJob)
	}

	// Chat
	if cfg.ChatHandler != nil {
		protected.GET("/chat/sessions", cfg.ChatHandler.ListSessions)
		protected.POST("/chat/sessions", cfg.ChatHandler.CreateSession)
		protected.GET("/chat/sessions/:id/messages", cfg.ChatHandler.ListMessages)
		protected.POST("/chat", cfg.ChatHandler.SendMessage)
	}

	// Billing
	if cfg.BillingHandler != nil {
		protected.GET("/subscription", cfg.BillingHandler.GetSubscription)
		protected.POST("/billing/orders", cfg.BillingHandler.CreateOrder)
		protected.POST("/billing/verify", cfg.BillingHandler.VerifyPayment)
	}

	return r
}
