package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/jobs/pipeline/course_content_generate"
	"github.com/yungbote/tutorialhub-backend/internal/jobs/runtime"
	"github.com/yungbote/tutorialhub-backend/internal/jobs/worker"
	"github.com/yungbote/tutorialhub-backend/internal/modules/coursegen"
	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

type Services struct {
	Generator *coursegen.Generator
	Outline   *coursegen.OutlineService
	Jobs      services.JobService
	Courses   services.CourseService
	Quiz      services.QuizService
	Chat      services.ChatService
	Billing   services.BillingService
	Scheduler *services.Scheduler
	JobWorker *worker.Worker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, notify services.JobNotifier, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	var s Services

	s.Generator = coursegen.NewGenerator(log, c.LLM, c.YouTube, coursegen.NewRepoStore(r.ChapterContent, r.QuizQuestion), metrics)
	s.Billing = services.NewBillingService(db, log, r.Subscription, r.PaymentOrder, r.Course, c.Razorpay, metrics)
	s.Outline = coursegen.NewOutlineService(log, c.LLM, r.Course, s.Billing, c.Pexels)
	s.Jobs = services.NewJobService(log, r.JobRun, notify, cfg.Worker.MaxAttempts)
	s.Courses = services.NewCourseService(log, r.Course, r.ChapterContent, r.QuizQuestion, s.Jobs)
	s.Quiz = services.NewQuizService(log, r.Course, r.QuizQuestion, r.QuizAttempt)
	s.Chat = services.NewChatService(log, c.Chat, r.ChatSession, r.ChatMessage)

	if cfg.Cron.Enabled {
		sched, err := services.NewScheduler(log, s.Billing, cfg.Cron.Expiry)
		if err != nil {
			return s, err
		}
		s.Scheduler = sched
	}

	if cfg.Worker.Enabled {
		registry, err := runtime.NewRegistry(course_content_generate.New(log, r.Course, s.Generator))
		if err != nil {
			return s, fmt.Errorf("register job handler: %w", err)
		}
		s.JobWorker = worker.NewWorker(cfg.Worker.Config, log, r.JobRun, registry, notify, metrics)
	}
	return s, nil
}
