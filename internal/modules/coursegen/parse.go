package coursegen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	coursedomain "github.com/yungbote/tutorialhub-backend/internal/domain/course"
)

var (
	ErrEmptyResponse     = errors.New("coursegen: empty response after fence strip")
	ErrInvalidJSON       = errors.New("coursegen: response is not valid JSON")
	ErrMalformedResponse = errors.New("coursegen: chapterDetails and quiz must both be arrays")
)

// QuizItem is one multiple-choice question as the model returns it. Decoding
// never fails: scalar fields of any JSON type are kept as text and unusable
// options are dropped.
type QuizItem struct {
	QuestionText    string             `json:"questionText"`
	Options         []types.QuizOption `json:"options"`
	CorrectOptionID string             `json:"correctOptionId"`
	Explanation     string             `json:"explanation_for_correct_answer,omitempty"`
}

func (q *QuizItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		*q = QuizItem{QuestionText: coursedomain.ScalarText(data), Options: []types.QuizOption{}}
		return nil
	}
	*q = QuizItem{
		QuestionText:    coursedomain.ScalarText(fields["questionText"]),
		Options:         lenientOptions(fields["options"]),
		CorrectOptionID: strings.TrimSpace(coursedomain.ScalarText(fields["correctOptionId"])),
		Explanation:     coursedomain.ScalarText(fields["explanation_for_correct_answer"]),
	}
	return nil
}

// lenientOptions accepts {id,text} objects or bare strings; bare strings get
// letter ids by position.
func lenientOptions(raw json.RawMessage) []types.QuizOption {
	out := []types.QuizOption{}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err == nil {
			out = append(out, types.QuizOption{
				ID:   strings.TrimSpace(coursedomain.ScalarText(fields["id"])),
				Text: coursedomain.ScalarText(fields["text"]),
			})
			continue
		}
		if text := coursedomain.ScalarText(item); text != "" {
			out = append(out, types.QuizOption{ID: string(rune('A' + i%26)), Text: text})
		}
	}
	return out
}

// ChapterResponse is the validated payload for one chapter. ChapterDetails is
// kept exactly as the model wrote it, so it is always a JSON array.
type ChapterResponse struct {
	ChapterDetails json.RawMessage
	Quiz           []QuizItem
}

// SectionCount reports how many entries chapterDetails holds.
func (r *ChapterResponse) SectionCount() int {
	var items []json.RawMessage
	if err := json.Unmarshal(r.ChapterDetails, &items); err != nil {
		return 0
	}
	return len(items)
}

var fenceRE = regexp.MustCompile("^```(?:json)?\\s*|\\s*```$")

// StripFences removes an optional ```json ... ``` wrapper and trims whitespace.
func StripFences(raw string) string {
	return strings.TrimSpace(fenceRE.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// ParseChapterResponse turns raw model text into a ChapterResponse. It never
// touches the network or logs; callers decide how to report failures.
func ParseChapterResponse(raw string) (*ChapterResponse, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, ErrInvalidJSON
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformedResponse)
	}
	details, quiz := top["chapterDetails"], top["quiz"]
	if !isArray(details) || !isArray(quiz) {
		return nil, ErrMalformedResponse
	}

	out := &ChapterResponse{ChapterDetails: append(json.RawMessage(nil), bytes.TrimSpace(details)...)}
	if err := json.Unmarshal(quiz, &out.Quiz); err != nil {
		return nil, fmt.Errorf("%w: quiz: %v", ErrMalformedResponse, err)
	}
	if out.Quiz == nil {
		out.Quiz = []QuizItem{}
	}
	return out, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// ParseOutline decodes the outline model response. At least one chapter is required.
func ParseOutline(raw string) (*types.CourseOutline, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	var out types.CourseOutline
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if len(out.Chapters) == 0 {
		return nil, fmt.Errorf("%w: outline has no chapters", ErrMalformedResponse)
	}
	for i, ch := range out.Chapters {
		if strings.TrimSpace(ch.Name) == "" {
			return nil, fmt.Errorf("%w: chapter %d has no name", ErrMalformedResponse, i)
		}
	}
	return &out, nil
}
