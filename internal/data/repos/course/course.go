package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	ListByCreator(dbc dbctx.Context, userID string) ([]*types.Course, error)
	ListPublished(dbc dbctx.Context, limit, offset int) ([]*types.Course, error)
	CountByCreator(dbc dbctx.Context, userID string) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := dbc.Resolve(r.db).Create(&courses).Error; err != nil {
		return nil, repoerr.Translate(err)
	}
	return courses, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, repoerr.ErrNotFound
	}
	var c types.Course
	if err := dbc.Resolve(r.db).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, repoerr.Translate(err)
	}
	return &c, nil
}

func (r *courseRepo) ListByCreator(dbc dbctx.Context, userID string) ([]*types.Course, error) {
	var results []*types.Course
	if userID == "" {
		return results, nil
	}
	if err := dbc.Resolve(r.db).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) ListPublished(dbc dbctx.Context, limit, offset int) ([]*types.Course, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var results []*types.Course
	if err := dbc.Resolve(r.db).
		Where("is_published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) CountByCreator(dbc dbctx.Context, userID string) (int64, error) {
	var n int64
	if userID == "" {
		return 0, nil
	}
	err := dbc.Resolve(r.db).Model(&types.Course{}).Where("created_by = ?", userID).Count(&n).Error
	return n, err
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	res := dbc.Resolve(r.db).Model(&types.Course{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repoerr.ErrNotFound
	}
	return nil
}

// Delete removes the course and every row generated for it.
func (r *courseRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&types.QuizAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&types.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&types.ChapterContent{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Where("id = ?", id).Delete(&types.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repoerr.ErrNotFound
		}
		return nil
	})
}
