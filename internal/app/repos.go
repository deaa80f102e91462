package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type Repos struct {
	Course         repos.CourseRepo
	ChapterContent repos.ChapterContentRepo
	QuizQuestion   repos.QuizQuestionRepo
	QuizAttempt    repos.QuizAttemptRepo
	Subscription   repos.SubscriptionRepo
	PaymentOrder   repos.PaymentOrderRepo
	ChatSession    repos.ChatSessionRepo
	ChatMessage    repos.ChatMessageRepo
	JobRun         repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:         repos.NewCourseRepo(db, log),
		ChapterContent: repos.NewChapterContentRepo(db, log),
		QuizQuestion:   repos.NewQuizQuestionRepo(db, log),
		QuizAttempt:    repos.NewQuizAttemptRepo(db, log),
		Subscription:   repos.NewSubscriptionRepo(db, log),
		PaymentOrder:   repos.NewPaymentOrderRepo(db, log),
		ChatSession:    repos.NewChatSessionRepo(db, log),
		ChatMessage:    repos.NewChatMessageRepo(db, log),
		JobRun:         repos.NewJobRunRepo(db, log),
	}
}
