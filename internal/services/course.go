package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

// QuizQuestionView hides the answer key from readers.
type QuizQuestionView struct {
	ID           uuid.UUID          `json:"id"`
	Position     int                `json:"position"`
	QuestionText string             `json:"question_text"`
	Options      []types.QuizOption `json:"options"`
}

type ChapterView struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Generated   bool   `json:"generated"`
	// Stale is set when the stored content was generated for a different outline entry.
	Stale bool `json:"stale,omitempty"`
	// Content is the generated section list exactly as stored.
	Content json.RawMessage    `json:"content,omitempty"`
	VideoID string             `json:"video_id,omitempty"`
	Quiz    []QuizQuestionView `json:"quiz,omitempty"`
}

type CourseDetail struct {
	Course   *types.Course `json:"course"`
	Chapters []ChapterView `json:"chapters"`
}

type CourseService interface {
	ListMine(dbc dbctx.Context) ([]*types.Course, error)
	Explore(dbc dbctx.Context, limit, offset int) ([]*types.Course, error)
	// GetDetail returns a course the caller owns or that is published, with
	// whatever chapters have been generated so far.
	GetDetail(dbc dbctx.Context, courseID uuid.UUID) (*CourseDetail, error)
	UpdateBanner(dbc dbctx.Context, courseID uuid.UUID, banner string) (*types.Course, error)
	Delete(dbc dbctx.Context, courseID uuid.UUID) error
	// RequestContent queues a content generation pass for an owned course.
	RequestContent(dbc dbctx.Context, courseID uuid.UUID) (*types.JobRun, error)
}

type courseService struct {
	log     *logger.Logger
	courses repos.CourseRepo
	content repos.ChapterContentRepo
	quiz    repos.QuizQuestionRepo
	jobs    JobService
}

func NewCourseService(baseLog *logger.Logger, courses repos.CourseRepo, content repos.ChapterContentRepo, quiz repos.QuizQuestionRepo, jobs JobService) CourseService {
	return &courseService{
		log:     baseLog.With("service", "CourseService"),
		courses: courses,
		content: content,
		quiz:    quiz,
		jobs:    jobs,
	}
}

func (s *courseService) ListMine(dbc dbctx.Context) ([]*types.Course, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	return s.courses.ListByCreator(dbc, userID)
}

func (s *courseService) Explore(dbc dbctx.Context, limit, offset int) ([]*types.Course, error) {
	return s.courses.ListPublished(dbc, limit, offset)
}

func (s *courseService) load(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error) {
	course, err := s.courses.GetByID(dbc, courseID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) loadOwned(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	course, err := s.load(dbc, courseID)
	if err != nil {
		return nil, err
	}
	if course.CreatedBy != userID {
		return nil, ErrNotCourseOwner
	}
	return course, nil
}

func (s *courseService) GetDetail(dbc dbctx.Context, courseID uuid.UUID) (*CourseDetail, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	course, err := s.load(dbc, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished && course.CreatedBy != userID {
		return nil, ErrCourseNotFound
	}
	outline, err := course.OutlineData()
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", courseID, err)
	}
	rows, err := s.content.ListByCourseID(dbc, courseID)
	if err != nil {
		return nil, err
	}
	questions, err := s.quiz.ListByCourseID(dbc, courseID)
	if err != nil {
		return nil, err
	}

	byIndex := lo.KeyBy(rows, func(r *types.ChapterContent) int { return r.ChapterIndex })
	quizByIndex := lo.GroupBy(questions, func(q *types.QuizQuestion) int { return q.ChapterIndex })

	chapters := make([]ChapterView, 0, len(outline.Chapters))
	for i, ch := range outline.Chapters {
		view := ChapterView{Index: i, Name: ch.Name, Description: ch.Description, Duration: ch.Duration}
		if row, ok := byIndex[i]; ok {
			if json.Valid(row.Content) {
				view.Generated = true
				view.Content = json.RawMessage(row.Content)
				view.VideoID = row.VideoID
				view.Stale = row.ChapterName != "" && row.ChapterName != ch.Name
			} else {
				s.log.Warn("unreadable chapter content", "course_id", courseID.String(), "chapter_index", i)
			}
		}
		for _, q := range quizByIndex[i] {
			opts, err := q.OptionList()
			if err != nil {
				continue
			}
			view.Quiz = append(view.Quiz, QuizQuestionView{ID: q.ID, Position: q.Position, QuestionText: q.QuestionText, Options: opts})
		}
		chapters = append(chapters, view)
	}
	return &CourseDetail{Course: course, Chapters: chapters}, nil
}

func (s *courseService) UpdateBanner(dbc dbctx.Context, courseID uuid.UUID, banner string) (*types.Course, error) {
	course, err := s.loadOwned(dbc, courseID)
	if err != nil {
		return nil, err
	}
	banner = strings.TrimSpace(banner)
	if banner == "" {
		return nil, apierr.BadRequest("invalid_banner", errors.New("banner url required"))
	}
	if err := s.courses.UpdateFields(dbc, courseID, map[string]interface{}{"banner": banner}); err != nil {
		return nil, err
	}
	course.Banner = banner
	return course, nil
}

func (s *courseService) Delete(dbc dbctx.Context, courseID uuid.UUID) error {
	if _, err := s.loadOwned(dbc, courseID); err != nil {
		return err
	}
	if err := s.courses.Delete(dbc, courseID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	s.log.Info("course deleted", "course_id", courseID.String())
	return nil
}

func (s *courseService) RequestContent(dbc dbctx.Context, courseID uuid.UUID) (*types.JobRun, error) {
	course, err := s.loadOwned(dbc, courseID)
	if err != nil {
		return nil, err
	}
	id := course.ID
	return s.jobs.Enqueue(dbc, course.CreatedBy, JobTypeCourseContentGenerate, EntityTypeCourse, &id, map[string]any{
		"course_id": id.String(),
	})
}
