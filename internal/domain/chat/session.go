package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

type Session struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string         `gorm:"column:user_id;not null;index" json:"user_id"`
	SessionName string         `gorm:"column:session_name;not null;default:'New Chat'" json:"session_name"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Session) TableName() string { return "ai_chat_session" }

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	Session   *Session  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"-"`
	Role      string    `gorm:"column:role;size:10;not null" json:"role"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (Message) TableName() string { return "ai_chat_message" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}
