package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

var ErrNoQuizQuestions = apierr.NotFound("quiz_not_found", errors.New("no quiz questions for this course"))

type QuestionResult struct {
	QuestionID      uuid.UUID `json:"question_id"`
	SelectedOption  string    `json:"selected_option_id,omitempty"`
	CorrectOptionID string    `json:"correct_option_id"`
	Correct         bool      `json:"correct"`
	Explanation     string    `json:"explanation,omitempty"`
}

type QuizResult struct {
	Attempt *types.QuizAttempt `json:"attempt"`
	Results []QuestionResult   `json:"results"`
}

type QuizService interface {
	// SubmitAttempt scores answers (question id → option id) against the stored
	// key. A nil chapterIndex scores the whole course quiz.
	SubmitAttempt(dbc dbctx.Context, courseID uuid.UUID, chapterIndex *int, answers map[string]string) (*QuizResult, error)
	ListAttempts(dbc dbctx.Context, courseID uuid.UUID) ([]*types.QuizAttempt, error)
}

type quizService struct {
	log      *logger.Logger
	courses  repos.CourseRepo
	quiz     repos.QuizQuestionRepo
	attempts repos.QuizAttemptRepo
}

func NewQuizService(baseLog *logger.Logger, courses repos.CourseRepo, quiz repos.QuizQuestionRepo, attempts repos.QuizAttemptRepo) QuizService {
	return &quizService{
		log:      baseLog.With("service", "QuizService"),
		courses:  courses,
		quiz:     quiz,
		attempts: attempts,
	}
}

func (s *quizService) readableCourse(dbc dbctx.Context, courseID uuid.UUID, userID string) error {
	course, err := s.courses.GetByID(dbc, courseID)
	if errors.Is(err, repos.ErrNotFound) {
		return ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	if !course.IsPublished && course.CreatedBy != userID {
		return ErrCourseNotFound
	}
	return nil
}

func (s *quizService) SubmitAttempt(dbc dbctx.Context, courseID uuid.UUID, chapterIndex *int, answers map[string]string) (*QuizResult, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	if err := s.readableCourse(dbc, courseID, userID); err != nil {
		return nil, err
	}

	var (
		questions []*types.QuizQuestion
		err       error
	)
	if chapterIndex != nil {
		questions, err = s.quiz.ListByCourseChapter(dbc, courseID, *chapterIndex)
	} else {
		questions, err = s.quiz.ListByCourseID(dbc, courseID)
	}
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuizQuestions
	}

	results := make([]QuestionResult, 0, len(questions))
	score := 0
	for _, q := range questions {
		selected := strings.ToUpper(strings.TrimSpace(answers[q.ID.String()]))
		ok := selected != "" && selected == strings.ToUpper(q.CorrectOptionID)
		if ok {
			score++
		}
		results = append(results, QuestionResult{
			QuestionID:      q.ID,
			SelectedOption:  selected,
			CorrectOptionID: q.CorrectOptionID,
			Correct:         ok,
			Explanation:     q.Explanation,
		})
	}

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	attempt := &types.QuizAttempt{
		UserID:         userID,
		CourseID:       courseID,
		ChapterIndex:   chapterIndex,
		Score:          score,
		TotalQuestions: len(questions),
		Answers:        datatypes.JSON(raw),
	}
	if _, err := s.attempts.Create(dbc, []*types.QuizAttempt{attempt}); err != nil {
		return nil, err
	}
	s.log.Info("quiz attempt recorded", "course_id", courseID.String(), "user_id", userID, "score", score, "total", len(questions))
	return &QuizResult{Attempt: attempt, Results: results}, nil
}

func (s *quizService) ListAttempts(dbc dbctx.Context, courseID uuid.UUID) ([]*types.QuizAttempt, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	return s.attempts.ListByUserCourse(dbc, userID, courseID)
}
