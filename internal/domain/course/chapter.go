package course

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VideoNotFound is stored when the video search yields nothing usable.
const VideoNotFound = "NOT_FOUND"

// ChapterContent holds generated sections for one chapter, keyed by (course, chapter index).
// ChapterName snapshots the outline entry the row was generated from.
type ChapterContent struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_chapter_content_course_chapter" json:"course_id"`
	ChapterIndex int            `gorm:"column:chapter_index;not null;uniqueIndex:idx_chapter_content_course_chapter" json:"chapter_index"`
	ChapterName  string         `gorm:"column:chapter_name" json:"chapter_name"`
	Content      datatypes.JSON `gorm:"column:content;type:jsonb;not null" json:"content"`
	VideoID      string         `gorm:"column:video_id;size:50" json:"video_id"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
}

func (ChapterContent) TableName() string { return "chapter_content" }

func (c *ChapterContent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *ChapterContent) Sections() ([]Section, error) {
	var out []Section
	if len(c.Content) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(c.Content, &out); err != nil {
		return nil, fmt.Errorf("decode chapter content: %w", err)
	}
	return out, nil
}

// Section is one titled block of chapter content. Decoding is lenient: a bare
// string becomes the explanation and scalar fields of any type are kept as text.
type Section struct {
	Title        string        `json:"title"`
	Explanation  string        `json:"explanation"`
	CodeExamples []CodeExample `json:"code_examples,omitempty"`
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Section{Explanation: text}
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("section must be an object or a string")
	}
	*s = Section{
		Title:        ScalarText(fields["title"]),
		Explanation:  ScalarText(fields["explanation"]),
		CodeExamples: lenientCodeExamples(fields["code_examples"]),
	}
	return nil
}

// lenientCodeExamples accepts a list of {code} objects, a list of strings or a
// single string. Anything else yields no examples.
func lenientCodeExamples(raw json.RawMessage) []CodeExample {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if text := ScalarText(raw); text != "" {
			return []CodeExample{{Code: CodeBlock{text}}}
		}
		return nil
	}
	out := make([]CodeExample, 0, len(items))
	for _, item := range items {
		var ex CodeExample
		if err := json.Unmarshal(item, &ex); err == nil && len(ex.Code) > 0 {
			out = append(out, ex)
			continue
		}
		var block CodeBlock
		if err := json.Unmarshal(item, &block); err == nil && len(block) > 0 {
			out = append(out, CodeExample{Code: block})
		}
	}
	return out
}

// ScalarText renders a JSON value as plain text: strings unquoted, numbers and
// booleans as written, null as "". Objects and arrays keep their compact JSON.
func ScalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

type CodeExample struct {
	Code CodeBlock `json:"code"`
}

// CodeBlock accepts either a single string or a list of strings on the wire.
// A single line marshals back to a plain string.
type CodeBlock []string

func (b *CodeBlock) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*b = CodeBlock{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("code must be a string or list of strings")
	}
	*b = CodeBlock(many)
	return nil
}

func (b CodeBlock) MarshalJSON() ([]byte, error) {
	if len(b) == 1 {
		return json.Marshal(b[0])
	}
	return json.Marshal([]string(b))
}
