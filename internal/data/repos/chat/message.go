package chat

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, m *types.ChatMessage) (*types.ChatMessage, error)
	ListBySessionID(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error)
	// ListRecent returns the newest limit messages in chronological order.
	ListRecent(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*types.ChatMessage, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, m *types.ChatMessage) (*types.ChatMessage, error) {
	if err := dbc.Resolve(r.db).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *messageRepo) ListBySessionID(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error) {
	var results []*types.ChatMessage
	if err := dbc.Resolve(r.db).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *messageRepo) ListRecent(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	var results []*types.ChatMessage
	if err := dbc.Resolve(r.db).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}
