package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type QuizAttemptRepo interface {
	Create(dbc dbctx.Context, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error)
	ListByUserCourse(dbc dbctx.Context, userID string, courseID uuid.UUID) ([]*types.QuizAttempt, error)
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (r *quizAttemptRepo) Create(dbc dbctx.Context, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error) {
	if len(attempts) == 0 {
		return []*types.QuizAttempt{}, nil
	}
	if err := dbc.Resolve(r.db).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *quizAttemptRepo) ListByUserCourse(dbc dbctx.Context, userID string, courseID uuid.UUID) ([]*types.QuizAttempt, error) {
	var results []*types.QuizAttempt
	if userID == "" || courseID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Resolve(r.db).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("attempted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
