package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type fixture struct {
	db       *gorm.DB
	log      *logger.Logger
	courses  repos.CourseRepo
	content  repos.ChapterContentRepo
	quiz     repos.QuizQuestionRepo
	attempts repos.QuizAttemptRepo
	subs     repos.SubscriptionRepo
	orders   repos.PaymentOrderRepo
	sessions repos.ChatSessionRepo
	messages repos.ChatMessageRepo
	jobs     repos.JobRunRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &fixture{
		db:       db,
		log:      log,
		courses:  repos.NewCourseRepo(db, log),
		content:  repos.NewChapterContentRepo(db, log),
		quiz:     repos.NewQuizQuestionRepo(db, log),
		attempts: repos.NewQuizAttemptRepo(db, log),
		subs:     repos.NewSubscriptionRepo(db, log),
		orders:   repos.NewPaymentOrderRepo(db, log),
		sessions: repos.NewChatSessionRepo(db, log),
		messages: repos.NewChatMessageRepo(db, log),
		jobs:     repos.NewJobRunRepo(db, log),
	}
}

func asUser(t *testing.T, userID string) dbctx.Context {
	t.Helper()
	return dbctx.New(ctxutil.WithRequestData(t.Context(), &ctxutil.RequestData{UserID: userID}))
}

func (f *fixture) course(t *testing.T, owner string, published bool, chapters ...string) *types.Course {
	t.Helper()
	c := &types.Course{Name: "Go", Category: "Programming", Level: "Beginner", CreatedBy: owner, IsPublished: published}
	outline := types.CourseOutline{Name: "Go"}
	for _, name := range chapters {
		outline.Chapters = append(outline.Chapters, types.ChapterOutline{Name: name})
	}
	if err := c.SetOutline(outline); err != nil {
		t.Fatalf("SetOutline: %v", err)
	}
	if _, err := f.courses.Create(dbctx.New(t.Context()), []*types.Course{c}); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return c
}

type recordedEvent struct {
	kind   string
	userID string
	jobID  uuid.UUID
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) add(kind, userID string, job *types.JobRun) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{kind: kind, userID: userID, jobID: job.ID})
}

func (n *recordingNotifier) JobCreated(userID string, job *types.JobRun) {
	n.add("created", userID, job)
}
func (n *recordingNotifier) JobProgress(userID string, job *types.JobRun, stage string, progress int, message string) {
	n.add("progress", userID, job)
}
func (n *recordingNotifier) JobFailed(userID string, job *types.JobRun, stage string, errorMessage string) {
	n.add("failed", userID, job)
}
func (n *recordingNotifier) JobDone(userID string, job *types.JobRun) { n.add("done", userID, job) }
