package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type ChapterContentRepo interface {
	Create(dbc dbctx.Context, rows []*types.ChapterContent) ([]*types.ChapterContent, error)
	ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.ChapterContent, error)
	CountByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
	DeleteByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
}

type chapterContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterContentRepo(db *gorm.DB, baseLog *logger.Logger) ChapterContentRepo {
	return &chapterContentRepo{db: db, log: baseLog.With("repo", "ChapterContentRepo")}
}

func (r *chapterContentRepo) Create(dbc dbctx.Context, rows []*types.ChapterContent) ([]*types.ChapterContent, error) {
	if len(rows) == 0 {
		return []*types.ChapterContent{}, nil
	}
	if err := dbc.Resolve(r.db).Create(&rows).Error; err != nil {
		return nil, repoerr.Translate(err)
	}
	return rows, nil
}

func (r *chapterContentRepo) ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.ChapterContent, error) {
	var results []*types.ChapterContent
	if courseID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Resolve(r.db).
		Where("course_id = ?", courseID).
		Order("chapter_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chapterContentRepo) CountByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.Resolve(r.db).Model(&types.ChapterContent{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

func (r *chapterContentRepo) DeleteByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	if courseID == uuid.Nil {
		return 0, nil
	}
	res := dbc.Resolve(r.db).Where("course_id = ?", courseID).Delete(&types.ChapterContent{})
	return res.RowsAffected, res.Error
}
