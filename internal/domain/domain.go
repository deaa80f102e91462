package domain

import (
	"github.com/yungbote/tutorialhub-backend/internal/domain/billing"
	"github.com/yungbote/tutorialhub-backend/internal/domain/chat"
	"github.com/yungbote/tutorialhub-backend/internal/domain/course"
	"github.com/yungbote/tutorialhub-backend/internal/domain/jobs"
)

type Course = course.Course
type CourseOutline = course.CourseOutline
type ChapterOutline = course.ChapterOutline
type ChapterContent = course.ChapterContent
type Section = course.Section
type CodeExample = course.CodeExample
type CodeBlock = course.CodeBlock
type QuizQuestion = course.QuizQuestion
type QuizOption = course.QuizOption
type QuizAttempt = course.QuizAttempt

type UserSubscription = billing.UserSubscription
type Plan = billing.Plan
type PaymentOrder = billing.PaymentOrder

type ChatSession = chat.Session
type ChatMessage = chat.Message

type JobRun = jobs.JobRun

const VideoNotFound = course.VideoNotFound

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&course.Course{},
		&course.ChapterContent{},
		&course.QuizQuestion{},
		&course.QuizAttempt{},
		&billing.UserSubscription{},
		&billing.PaymentOrder{},
		&chat.Session{},
		&chat.Message{},
		&jobs.JobRun{},
	}
}
