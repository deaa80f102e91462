package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type QuizQuestionRepo interface {
	Create(dbc dbctx.Context, rows []*types.QuizQuestion) ([]*types.QuizQuestion, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.QuizQuestion, error)
	ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.QuizQuestion, error)
	ListByCourseChapter(dbc dbctx.Context, courseID uuid.UUID, chapterIndex int) ([]*types.QuizQuestion, error)
	CountByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
	DeleteByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return &quizQuestionRepo{db: db, log: baseLog.With("repo", "QuizQuestionRepo")}
}

func (r *quizQuestionRepo) Create(dbc dbctx.Context, rows []*types.QuizQuestion) ([]*types.QuizQuestion, error) {
	if len(rows) == 0 {
		return []*types.QuizQuestion{}, nil
	}
	if err := dbc.Resolve(r.db).Create(&rows).Error; err != nil {
		return nil, repoerr.Translate(err)
	}
	return rows, nil
}

func (r *quizQuestionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.QuizQuestion, error) {
	var results []*types.QuizQuestion
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Resolve(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizQuestionRepo) ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.QuizQuestion, error) {
	var results []*types.QuizQuestion
	if courseID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Resolve(r.db).
		Where("course_id = ?", courseID).
		Order("chapter_index ASC").
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizQuestionRepo) ListByCourseChapter(dbc dbctx.Context, courseID uuid.UUID, chapterIndex int) ([]*types.QuizQuestion, error) {
	var results []*types.QuizQuestion
	if courseID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Resolve(r.db).
		Where("course_id = ? AND chapter_index = ?", courseID, chapterIndex).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizQuestionRepo) CountByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.Resolve(r.db).Model(&types.QuizQuestion{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

func (r *quizQuestionRepo) DeleteByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	if courseID == uuid.Nil {
		return 0, nil
	}
	res := dbc.Resolve(r.db).Where("course_id = ?", courseID).Delete(&types.QuizQuestion{})
	return res.RowsAffected, res.Error
}
