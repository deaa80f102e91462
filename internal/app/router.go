package app

import (
	"github.com/gin-gonic/gin"

	httpX "github.com/yungbote/tutorialhub-backend/internal/http"
	httpMW "github.com/yungbote/tutorialhub-backend/internal/http/middleware"
	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers, auth *httpMW.AuthMiddleware, metrics *observability.Metrics) *gin.Engine {
	return httpX.NewRouter(httpX.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		CORSOrigins:     cfg.HTTP.Origins(),
		TracingEnabled:  cfg.Otel.Enabled,
		ServiceName:     cfg.Otel.ServiceName,
		AuthMiddleware:  auth,
		HealthHandler:   h.Health,
		CourseHandler:   h.Course,
		JobHandler:      h.Job,
		RealtimeHandler: h.Realtime,
		QuizHandler:     h.Quiz,
		ChatHandler:     h.Chat,
		BillingHandler:  h.Billing,
	})
}
