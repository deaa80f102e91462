package coursegen

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
)

type stubLimiter struct{ err error }

func (s stubLimiter) CheckCourseLimit(ctx context.Context, userID string) error { return s.err }

type stubImages struct {
	url string
	err error
}

func (s stubImages) SearchImageURL(ctx context.Context, query string) (string, error) {
	return s.url, s.err
}

const outlineJSON = "```json\n" + `{"course_name":"Go Basics","category":"Programming","level":"Beginner","chapters":[{"chapter_name":"Intro","description":"Hello"},{"chapter_name":"Loops"}]}` + "\n```"

func validInput() UserInput {
	return UserInput{
		Category:      " Programming ",
		Topic:         "Go Basics",
		Difficulty:    "Beginner",
		Duration:      "2 Hours",
		TotalChapters: 2,
	}
}

func TestCreateCourseStoresOutline(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	courses := repos.NewCourseRepo(db, log)
	ai := &fakeLLM{reply: func(int, string) (string, error) { return outlineJSON, nil }}
	svc := NewOutlineService(log, ai, courses, stubLimiter{}, stubImages{url: "https://img/x.jpg"})

	course, err := svc.CreateCourse(t.Context(), Author{UserID: "user_1", Username: "ann"}, validInput())
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if course.Name != "Go Basics" || course.Category != "Programming" || course.Level != "Beginner" {
		t.Fatalf("unexpected course fields: %+v", course)
	}
	if course.IncludeVideo != "Yes" || course.IsPublished || course.Banner != "https://img/x.jpg" {
		t.Fatalf("unexpected defaults: %+v", course)
	}
	if !strings.Contains(ai.prompts[0], "Topic 'Go Basics'") || !strings.Contains(ai.prompts[0], "chapters '2'") {
		t.Fatalf("prompt missing input: %s", ai.prompts[0])
	}

	stored, err := courses.GetByID(dbctx.New(t.Context()), course.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	outline, err := stored.OutlineData()
	if err != nil {
		t.Fatalf("OutlineData: %v", err)
	}
	if names := outline.ChapterNames(); len(names) != 2 || names[1] != "Loops" {
		t.Fatalf("unexpected chapters: %v", names)
	}
}

func TestCreateCourseRejectsInput(t *testing.T) {
	log := testutil.Logger(t)
	svc := NewOutlineService(log, &fakeLLM{}, nil, nil, nil)

	cases := map[string]func(*UserInput){
		"blank topic":    func(in *UserInput) { in.Topic = "   " },
		"zero chapters":  func(in *UserInput) { in.TotalChapters = 0 },
		"many chapters":  func(in *UserInput) { in.TotalChapters = 21 },
		"bad video flag": func(in *UserInput) { in.Video = "maybe" },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		_, err := svc.CreateCourse(t.Context(), Author{UserID: "u"}, in)
		ae, ok := apierr.As(err)
		if !ok || ae.Status != http.StatusBadRequest {
			t.Fatalf("%s: want 400 got %v", name, err)
		}
	}
}

func TestCreateCourseFailures(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	courses := repos.NewCourseRepo(db, log)

	limitErr := apierr.Forbidden("course_limit_reached", errors.New("limit"))
	svc := NewOutlineService(log, &fakeLLM{}, courses, stubLimiter{err: limitErr}, nil)
	if _, err := svc.CreateCourse(t.Context(), Author{UserID: "u"}, validInput()); !errors.Is(err, limitErr) {
		t.Fatalf("want limit error got %v", err)
	}

	svc = NewOutlineService(log, nil, courses, nil, nil)
	_, err := svc.CreateCourse(t.Context(), Author{UserID: "u"}, validInput())
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("want 503 got %v", err)
	}

	noChapters := &fakeLLM{reply: func(int, string) (string, error) { return `{"course_name":"x","chapters":[]}`, nil }}
	svc = NewOutlineService(log, noChapters, courses, nil, stubImages{err: errors.New("down")})
	_, err = svc.CreateCourse(t.Context(), Author{UserID: "u"}, validInput())
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusBadGateway || !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("want 502 malformed got %v", err)
	}

	n, err := courses.CountByCreator(dbctx.New(t.Context()), "u")
	if err != nil || n != 0 {
		t.Fatalf("no course should be stored: n=%d err=%v", n, err)
	}
}

func TestCreateCourseBannerFailureIsNotFatal(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ai := &fakeLLM{reply: func(int, string) (string, error) { return outlineJSON, nil }}
	svc := NewOutlineService(log, ai, repos.NewCourseRepo(db, log), nil, stubImages{err: errors.New("down")})

	course, err := svc.CreateCourse(t.Context(), Author{UserID: "u"}, validInput())
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if course.Banner != "" {
		t.Fatalf("banner should be empty, got %q", course.Banner)
	}
}
