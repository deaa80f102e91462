package course

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuizQuestion struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_quiz_question_course_chapter" json:"course_id"`
	ChapterIndex    int            `gorm:"column:chapter_index;not null;index:idx_quiz_question_course_chapter" json:"chapter_index"`
	Position        int            `gorm:"column:position;not null;default:0" json:"position"`
	QuestionText    string         `gorm:"column:question_text;type:text;not null" json:"question_text"`
	Options         datatypes.JSON `gorm:"column:options;type:jsonb;not null" json:"options"`
	CorrectOptionID string         `gorm:"column:correct_option_id;size:10;not null" json:"correct_option_id"`
	Explanation     string         `gorm:"column:explanation;type:text" json:"explanation,omitempty"`
	AIGenerated     bool           `gorm:"column:ai_generated;not null;default:true" json:"ai_generated"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (q *QuizQuestion) OptionList() ([]QuizOption, error) {
	var out []QuizOption
	if len(q.Options) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(q.Options, &out); err != nil {
		return nil, fmt.Errorf("decode quiz options: %w", err)
	}
	return out, nil
}

// QuizAttempt records one scored submission. ChapterIndex is nil for whole-course quizzes.
type QuizAttempt struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string         `gorm:"column:user_id;not null;index" json:"user_id"`
	CourseID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	ChapterIndex   *int           `gorm:"column:chapter_index" json:"chapter_index,omitempty"`
	Score          int            `gorm:"column:score;not null" json:"score"`
	TotalQuestions int            `gorm:"column:total_questions;not null" json:"total_questions"`
	Answers        datatypes.JSON `gorm:"column:answers;type:jsonb" json:"answers,omitempty"`
	AttemptedAt    time.Time      `gorm:"column:attempted_at;not null;index" json:"attempted_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = time.Now()
	}
	return nil
}
