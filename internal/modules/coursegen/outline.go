package coursegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/tutorialhub-backend/internal/clients/llm"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

// UserInput is the course request as typed by the user.
type UserInput struct {
	Category      string `json:"category" validate:"required,max=200"`
	Topic         string `json:"topic" validate:"required,max=300"`
	Description   string `json:"description" validate:"max=2000"`
	Difficulty    string `json:"difficulty" validate:"required,max=50"`
	Duration      string `json:"duration" validate:"max=50"`
	Video         string `json:"video" validate:"omitempty,oneof=Yes No"`
	TotalChapters int    `json:"total_chapters" validate:"min=1,max=20"`
}

// Normalize trims every free-text field and defaults Video to "Yes".
func (in UserInput) Normalize() UserInput {
	in.Category = strings.TrimSpace(in.Category)
	in.Topic = strings.TrimSpace(in.Topic)
	in.Description = strings.TrimSpace(in.Description)
	in.Difficulty = strings.TrimSpace(in.Difficulty)
	in.Duration = strings.TrimSpace(in.Duration)
	in.Video = strings.TrimSpace(in.Video)
	if in.Video == "" {
		in.Video = "Yes"
	}
	return in
}

// Author identifies who owns a new course.
type Author struct {
	UserID   string
	Username string
	ImageURL string
}

// CourseLimiter rejects course creation once the author's plan is exhausted.
type CourseLimiter interface {
	CheckCourseLimit(ctx context.Context, userID string) error
}

// ImageSearcher finds a banner image URL; "" means nothing matched.
type ImageSearcher interface {
	SearchImageURL(ctx context.Context, query string) (string, error)
}

type OutlineService struct {
	log      *logger.Logger
	llm      llm.Client
	courses  repos.CourseRepo
	limiter  CourseLimiter
	images   ImageSearcher
	validate *validator.Validate
}

// NewOutlineService builds the course-creation flow. limiter and images may be nil.
func NewOutlineService(log *logger.Logger, llmClient llm.Client, courses repos.CourseRepo, limiter CourseLimiter, images ImageSearcher) *OutlineService {
	return &OutlineService{
		log:      log.With("service", "CourseOutlineService"),
		llm:      llmClient,
		courses:  courses,
		limiter:  limiter,
		images:   images,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateCourse asks the model for an outline and stores an unpublished course.
func (s *OutlineService) CreateCourse(ctx context.Context, author Author, in UserInput) (*types.Course, error) {
	if strings.TrimSpace(author.UserID) == "" {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("missing user"))
	}
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, apierr.BadRequest("invalid_input", fmt.Errorf("invalid course input: %w", err))
	}
	if s.limiter != nil {
		if err := s.limiter.CheckCourseLimit(ctx, author.UserID); err != nil {
			return nil, err
		}
	}
	if s.llm == nil {
		return nil, apierr.Unavailable("ai_unavailable", ErrAIUnavailable)
	}

	log := s.log.With("user_id", author.UserID, "topic", in.Topic)

	raw, err := s.llm.GenerateText(ctx, "", OutlinePrompt(in), llm.GenerationOptions)
	if err != nil {
		log.Error("outline request failed", "error", err)
		return nil, apierr.New(http.StatusBadGateway, "outline_failed", fmt.Errorf("generate outline: %w", err))
	}
	outline, err := ParseOutline(raw)
	if err != nil {
		log.Error("outline response unusable", "error", err, "raw_prefix", truncate(raw, 500))
		return nil, apierr.New(http.StatusBadGateway, "outline_failed", fmt.Errorf("parse outline: %w", err))
	}
	if outline.Category == "" {
		outline.Category = in.Category
	}
	if outline.Level == "" {
		outline.Level = in.Difficulty
	}
	if outline.Topic == "" {
		outline.Topic = in.Topic
	}

	course := &types.Course{
		Name:             in.Topic,
		Category:         in.Category,
		Level:            in.Difficulty,
		IncludeVideo:     in.Video,
		CreatedBy:        author.UserID,
		Username:         author.Username,
		UserProfileImage: author.ImageURL,
	}
	if err := course.SetOutline(*outline); err != nil {
		return nil, fmt.Errorf("encode outline: %w", err)
	}
	course.Banner = s.banner(ctx, log, in.Topic)

	created, err := s.courses.Create(dbctx.New(ctx), []*types.Course{course})
	if err != nil {
		log.Error("failed to save course", "error", err)
		return nil, fmt.Errorf("save course: %w", err)
	}
	log.Info("course created", "course_id", created[0].ID.String(), "chapters", len(outline.Chapters))
	return created[0], nil
}

func (s *OutlineService) banner(ctx context.Context, log *logger.Logger, topic string) string {
	if s.images == nil {
		return ""
	}
	url, err := s.images.SearchImageURL(ctx, topic)
	if err != nil {
		log.Warn("banner lookup failed", "error", err)
		return ""
	}
	return url
}
