package jobs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusFailed    = "failed"
	StatusSucceeded = "succeeded"
	StatusCanceled  = "canceled"
)

// DefaultMaxAttempts is the retry budget when none is configured.
const DefaultMaxAttempts = 3

type JobRun struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID string         `gorm:"column:owner_user_id;not null;index" json:"owner_user_id"`
	JobType     string         `gorm:"column:job_type;not null;index" json:"job_type"`
	EntityType  string         `gorm:"column:entity_type;index" json:"entity_type,omitempty"`
	EntityID    *uuid.UUID     `gorm:"type:uuid;column:entity_id;index" json:"entity_id,omitempty"`
	Status      string         `gorm:"column:status;not null;index" json:"status"`
	Stage       string         `gorm:"column:stage;not null" json:"stage"`
	Progress    int            `gorm:"column:progress;not null;default:0" json:"progress"`
	Attempts    int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Message     string         `gorm:"column:message" json:"message,omitempty"`
	Error       string         `gorm:"column:error" json:"error,omitempty"`
	LockedAt    *time.Time     `gorm:"column:locked_at;index" json:"locked_at,omitempty"`
	HeartbeatAt *time.Time     `gorm:"column:heartbeat_at;index" json:"heartbeat_at,omitempty"`
	LastErrorAt *time.Time     `gorm:"column:last_error_at" json:"last_error_at,omitempty"`
	Payload     datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	Result      datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (JobRun) TableName() string { return "job_run" }

func (j *JobRun) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

func (j *JobRun) Terminal() bool {
	switch j.Status {
	case StatusSucceeded, StatusCanceled:
		return true
	}
	return false
}
