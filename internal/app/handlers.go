package app

import (
	httpH "github.com/yungbote/tutorialhub-backend/internal/http/handlers"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
	"github.com/yungbote/tutorialhub-backend/internal/realtime"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Course   *httpH.CourseHandler
	Job      *httpH.JobHandler
	Realtime *httpH.RealtimeHandler
	Quiz     *httpH.QuizHandler
	Chat     *httpH.ChatHandler
	Billing  *httpH.BillingHandler
}

func wireHandlers(log *logger.Logger, s Services, hub *realtime.SSEHub, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Course:   httpH.NewCourseHandler(log, s.Outline, s.Courses, s.Jobs),
		Job:      httpH.NewJobHandler(s.Jobs),
		Realtime: httpH.NewRealtimeHandler(log, hub),
		Quiz:     httpH.NewQuizHandler(s.Quiz),
		Chat:     httpH.NewChatHandler(s.Chat),
		Billing:  httpH.NewBillingHandler(s.Billing),
	}
}
