package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, s *types.ChatSession) (*types.ChatSession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ChatSession, error)
	ListByUserID(dbc dbctx.Context, userID string) ([]*types.ChatSession, error)
	Touch(dbc dbctx.Context, id uuid.UUID, at time.Time) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "ChatSessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.ChatSession) (*types.ChatSession, error) {
	if err := dbc.Resolve(r.db).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ChatSession, error) {
	var s types.ChatSession
	if err := dbc.Resolve(r.db).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, repoerr.Translate(err)
	}
	return &s, nil
}

func (r *sessionRepo) ListByUserID(dbc dbctx.Context, userID string) ([]*types.ChatSession, error) {
	var results []*types.ChatSession
	if userID == "" {
		return results, nil
	}
	if err := dbc.Resolve(r.db).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionRepo) Touch(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	return dbc.Resolve(r.db).Model(&types.ChatSession{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}
