package coursegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/tutorialhub-backend/internal/clients/llm"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

var (
	ErrAIUnavailable = errors.New("coursegen: AI service is not initialized")
	ErrNoChapters    = errors.New("coursegen: no chapters in course outline")
	ErrUnexpected    = errors.New("coursegen: unexpected error during generation")
)

// Progress messages shown to the user.
const (
	MsgAIUnavailable = "AI Service is not initialized. Please check API Key and server logs."
	MsgNoChapters    = "Error: No chapters found in the course outline."
	MsgCleared       = "Existing data cleared. Starting generation..."
	MsgCompleted     = "All content and quizzes generation process completed!"
	MsgUnexpected    = "An unexpected error occurred during the generation process."
)

// Chapter failure reasons recorded in Result.
const (
	ReasonNoResponse = "no_response"
	ReasonParse      = "parse_error"
	ReasonMalformed  = "malformed_response"
	ReasonError      = "error"
)

// VideoSearcher finds a video id for a query; "" means nothing matched.
type VideoSearcher interface {
	SearchVideoID(ctx context.Context, query string) (string, error)
}

// ContentStore persists generated rows. Each call commits on its own.
type ContentStore interface {
	DeleteCourseContent(ctx context.Context, courseID uuid.UUID) error
	SaveChapterContent(ctx context.Context, row *types.ChapterContent) error
	SaveQuizQuestions(ctx context.Context, rows []*types.QuizQuestion) error
}

// ProgressFunc receives human-readable status lines. It may be nil.
type ProgressFunc func(msg string)

type FailedChapter struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type Result struct {
	CourseID      uuid.UUID       `json:"course_id"`
	Total         int             `json:"total"`
	Succeeded     int             `json:"succeeded"`
	QuizQuestions int             `json:"quiz_questions"`
	Failed        []FailedChapter `json:"failed,omitempty"`
}

type Generator struct {
	log     *logger.Logger
	llm     llm.Client
	videos  VideoSearcher
	store   ContentStore
	metrics *observability.Metrics
}

// NewGenerator wires the collaborators. A nil llm client makes every pass
// fail with ErrAIUnavailable; a nil video searcher stores NOT_FOUND.
func NewGenerator(log *logger.Logger, llmClient llm.Client, videos VideoSearcher, store ContentStore, metrics *observability.Metrics) *Generator {
	return &Generator{
		log:     log.With("service", "ChapterContentGenerator"),
		llm:     llmClient,
		videos:  videos,
		store:   store,
		metrics: metrics,
	}
}

// Ready reports whether an LLM client is configured.
func (g *Generator) Ready() bool {
	return g != nil && g.llm != nil
}

// Generate rebuilds chapter content and quizzes for every chapter of the course
// outline, one chapter at a time. Chapter failures are recorded in Result and
// never returned as the error; the error is reserved for ErrAIUnavailable,
// ErrNoChapters and ErrUnexpected.
func (g *Generator) Generate(ctx context.Context, course *types.Course, progress ProgressFunc) (res Result, err error) {
	report := func(msg string) {
		if progress != nil {
			progress(msg)
		}
	}
	start := time.Now()
	defer func() {
		outcome := "completed"
		switch {
		case errors.Is(err, ErrAIUnavailable):
			outcome = "ai_unavailable"
		case errors.Is(err, ErrNoChapters):
			outcome = "no_chapters"
		case err != nil:
			outcome = "aborted"
		}
		g.metrics.ObserveGenerationPass(outcome, time.Since(start))
	}()

	if !g.Ready() {
		g.log.Error("content generation requested without an AI client")
		report(MsgAIUnavailable)
		return res, ErrAIUnavailable
	}
	if course == nil {
		report(MsgUnexpected)
		return res, fmt.Errorf("%w: nil course", ErrUnexpected)
	}
	res.CourseID = course.ID
	log := g.log.With("course_id", course.ID.String())

	report(fmt.Sprintf("Preparing to generate content for %q...", course.Name))

	outline, oErr := course.OutlineData()
	if oErr != nil {
		log.Error("course outline unreadable", "error", oErr)
		report(MsgUnexpected)
		return res, fmt.Errorf("%w: %w", ErrUnexpected, oErr)
	}
	chapters := outline.Chapters
	if len(chapters) == 0 {
		report(MsgNoChapters)
		return res, ErrNoChapters
	}
	res.Total = len(chapters)

	report(fmt.Sprintf("Deleting existing content & quizzes for %q...", course.Name))
	if dErr := g.store.DeleteCourseContent(ctx, course.ID); dErr != nil {
		log.Error("failed to clear existing content", "error", dErr)
		report(MsgUnexpected)
		return res, fmt.Errorf("%w: clear existing content: %w", ErrUnexpected, dErr)
	}
	report(MsgCleared)

	for i, chapter := range chapters {
		if cErr := ctx.Err(); cErr != nil {
			log.Warn("content generation canceled", "next_chapter", i, "error", cErr)
			report(MsgUnexpected)
			return res, fmt.Errorf("%w: %w", ErrUnexpected, cErr)
		}
		counter := fmt.Sprintf("(%d/%d)", i+1, len(chapters))
		quizCount, reason := g.processChapter(ctx, log, course, i, chapter, counter, report)
		if reason != "" {
			res.Failed = append(res.Failed, FailedChapter{Index: i, Name: chapter.Name, Reason: reason})
			g.metrics.IncChapterOutcome(reason)
			continue
		}
		res.Succeeded++
		res.QuizQuestions += quizCount
		g.metrics.IncChapterOutcome("succeeded")
	}

	report(MsgCompleted)
	log.Info("content generation finished",
		"total", res.Total,
		"succeeded", res.Succeeded,
		"failed", len(res.Failed),
		"quiz_questions", res.QuizQuestions,
	)
	return res, nil
}

// processChapter runs steps for a single chapter and returns the number of
// quiz questions saved, or a non-empty failure reason.
func (g *Generator) processChapter(
	ctx context.Context,
	log *logger.Logger,
	course *types.Course,
	index int,
	chapter types.ChapterOutline,
	counter string,
	report func(string),
) (quizCount int, reason string) {
	label := chapter.Name + " " + counter
	log = log.With("chapter_index", index, "chapter_name", chapter.Name)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while processing chapter", "panic", r)
			report(fmt.Sprintf("Error occurred during: %s. Check server logs.", label))
			quizCount, reason = 0, ReasonError
		}
	}()

	prompt := ChapterPrompt(course, chapter)

	report(fmt.Sprintf("Fetching video for %s...", label))
	videoID := g.lookupVideo(ctx, log, VideoQuery(course.Name, chapter.Name))

	report(fmt.Sprintf("AI processing for %s...", label))
	raw, err := g.llm.GenerateText(ctx, "", prompt, llm.GenerationOptions)
	if err != nil {
		if errors.Is(err, llm.ErrNoResponse) {
			log.Error("no response text from AI")
			report(fmt.Sprintf("Error (No AI response text) for: %s", label))
			return 0, ReasonNoResponse
		}
		log.Error("AI request failed", "error", err)
		report(fmt.Sprintf("Error occurred during: %s. Check server logs.", label))
		return 0, ReasonError
	}

	parsed, err := ParseChapterResponse(raw)
	switch {
	case errors.Is(err, ErrEmptyResponse), errors.Is(err, ErrInvalidJSON):
		log.Error("failed to parse AI JSON response", "error", err, "raw_prefix", truncate(raw, 500))
		report(fmt.Sprintf("Error (JSON parse) for: %s. Check server logs.", label))
		return 0, ReasonParse
	case errors.Is(err, ErrMalformedResponse):
		log.Error("malformed AI response structure", "error", err, "raw_prefix", truncate(raw, 500))
		report(fmt.Sprintf("Error (Malformed AI response) for: %s", label))
		return 0, ReasonMalformed
	case err != nil:
		log.Error("unexpected parse failure", "error", err)
		report(fmt.Sprintf("Error occurred during: %s. Check server logs.", label))
		return 0, ReasonError
	}

	report(fmt.Sprintf("Saving content for %s...", label))
	row := &types.ChapterContent{
		CourseID:     course.ID,
		ChapterIndex: index,
		ChapterName:  chapter.Name,
		Content:      datatypes.JSON(parsed.ChapterDetails),
		VideoID:      videoID,
	}
	if err := g.store.SaveChapterContent(ctx, row); err != nil {
		log.Error("failed to save chapter content", "error", err)
		report(fmt.Sprintf("Error occurred during: %s. Check server logs.", label))
		return 0, ReasonError
	}

	if len(parsed.Quiz) > 0 {
		report(fmt.Sprintf("Saving quiz for %s...", label))
		rows, err := quizRows(course.ID, index, parsed.Quiz)
		if err == nil {
			err = g.store.SaveQuizQuestions(ctx, rows)
		}
		if err != nil {
			log.Error("failed to save quiz questions", "error", err)
			report(fmt.Sprintf("Error occurred during: %s. Check server logs.", label))
			return 0, ReasonError
		}
		quizCount = len(rows)
	} else {
		log.Warn("no quiz questions generated for chapter")
	}

	log.Info("chapter saved", "sections", parsed.SectionCount(), "quiz_questions", quizCount, "video_id", videoID)
	report(fmt.Sprintf("Successfully processed: %s", label))
	return quizCount, ""
}

func (g *Generator) lookupVideo(ctx context.Context, log *logger.Logger, query string) string {
	if g.videos == nil {
		return types.VideoNotFound
	}
	id, err := g.videos.SearchVideoID(ctx, query)
	if err != nil {
		log.Warn("video search failed", "query", query, "error", err)
		return types.VideoNotFound
	}
	if strings.TrimSpace(id) == "" {
		log.Warn("no video found", "query", query)
		return types.VideoNotFound
	}
	return id
}

// maxOptionIDLen matches the correct_option_id column width.
const maxOptionIDLen = 10

func quizRows(courseID uuid.UUID, index int, items []QuizItem) ([]*types.QuizQuestion, error) {
	rows := make([]*types.QuizQuestion, 0, len(items))
	for pos, q := range items {
		options := q.Options
		if options == nil {
			options = []types.QuizOption{}
		}
		b, err := json.Marshal(options)
		if err != nil {
			return nil, err
		}
		rows = append(rows, &types.QuizQuestion{
			CourseID:        courseID,
			ChapterIndex:    index,
			Position:        pos,
			QuestionText:    q.QuestionText,
			Options:         datatypes.JSON(b),
			CorrectOptionID: truncate(q.CorrectOptionID, maxOptionIDLen),
			Explanation:     q.Explanation,
			AIGenerated:     true,
		})
	}
	return rows, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
