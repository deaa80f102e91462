package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/billing"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos/chat"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos/course"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos/jobs"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type CourseRepo = course.CourseRepo
type ChapterContentRepo = course.ChapterContentRepo
type QuizQuestionRepo = course.QuizQuestionRepo
type QuizAttemptRepo = course.QuizAttemptRepo

type SubscriptionRepo = billing.SubscriptionRepo
type PaymentOrderRepo = billing.PaymentOrderRepo

type ChatSessionRepo = chat.SessionRepo
type ChatMessageRepo = chat.MessageRepo

type JobRunRepo = jobs.JobRunRepo

var (
	ErrNotFound = repoerr.ErrNotFound
	ErrConflict = repoerr.ErrConflict
)

func NewCourseRepo(db *gorm.DB, log *logger.Logger) CourseRepo { return course.NewCourseRepo(db, log) }
func NewChapterContentRepo(db *gorm.DB, log *logger.Logger) ChapterContentRepo {
	return course.NewChapterContentRepo(db, log)
}
func NewQuizQuestionRepo(db *gorm.DB, log *logger.Logger) QuizQuestionRepo {
	return course.NewQuizQuestionRepo(db, log)
}
func NewQuizAttemptRepo(db *gorm.DB, log *logger.Logger) QuizAttemptRepo {
	return course.NewQuizAttemptRepo(db, log)
}
func NewSubscriptionRepo(db *gorm.DB, log *logger.Logger) SubscriptionRepo {
	return billing.NewSubscriptionRepo(db, log)
}
func NewPaymentOrderRepo(db *gorm.DB, log *logger.Logger) PaymentOrderRepo {
	return billing.NewPaymentOrderRepo(db, log)
}
func NewChatSessionRepo(db *gorm.DB, log *logger.Logger) ChatSessionRepo {
	return chat.NewSessionRepo(db, log)
}
func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return chat.NewMessageRepo(db, log)
}
func NewJobRunRepo(db *gorm.DB, log *logger.Logger) JobRunRepo { return jobs.NewJobRunRepo(db, log) }
