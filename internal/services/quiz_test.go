package services

import (
	"errors"
	"testing"

	"gorm.io/datatypes"

	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
)

func TestSubmitAttemptScores(t *testing.T) {
	f := newFixture(t)
	svc := NewQuizService(f.log, f.courses, f.quiz, f.attempts)
	c := f.course(t, "owner", true, "Intro", "Loops")
	opts := datatypes.JSON(`[{"id":"A","text":"a"},{"id":"B","text":"b"}]`)
	rows, err := f.quiz.Create(dbctx.New(t.Context()), []*types.QuizQuestion{
		{CourseID: c.ID, ChapterIndex: 0, Position: 0, QuestionText: "1", Options: opts, CorrectOptionID: "A"},
		{CourseID: c.ID, ChapterIndex: 0, Position: 1, QuestionText: "2", Options: opts, CorrectOptionID: "B"},
		{CourseID: c.ID, ChapterIndex: 1, Position: 0, QuestionText: "3", Options: opts, CorrectOptionID: "A"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	answers := map[string]string{
		rows[0].ID.String(): "a",
		rows[1].ID.String(): "A",
		rows[2].ID.String(): "A",
		"not-a-question":    "A",
	}

	chapter := 0
	res, err := svc.SubmitAttempt(asUser(t, "learner"), c.ID, &chapter, answers)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.Attempt.Score != 1 || res.Attempt.TotalQuestions != 2 {
		t.Fatalf("chapter score: %+v", res.Attempt)
	}
	if !res.Results[0].Correct || res.Results[1].Correct {
		t.Fatalf("per-question results wrong: %+v", res.Results)
	}

	whole, err := svc.SubmitAttempt(asUser(t, "learner"), c.ID, nil, answers)
	if err != nil {
		t.Fatalf("SubmitAttempt whole: %v", err)
	}
	if whole.Attempt.Score != 2 || whole.Attempt.TotalQuestions != 3 || whole.Attempt.ChapterIndex != nil {
		t.Fatalf("course score: %+v", whole.Attempt)
	}

	list, err := svc.ListAttempts(asUser(t, "learner"), c.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListAttempts: n=%d err=%v", len(list), err)
	}
	if other, _ := svc.ListAttempts(asUser(t, "someone"), c.ID); len(other) != 0 {
		t.Fatalf("attempts leaked across users: %d", len(other))
	}
}

func TestSubmitAttemptWithoutQuestions(t *testing.T) {
	f := newFixture(t)
	svc := NewQuizService(f.log, f.courses, f.quiz, f.attempts)
	c := f.course(t, "owner", false, "Intro")

	if _, err := svc.SubmitAttempt(asUser(t, "owner"), c.ID, nil, nil); !errors.Is(err, ErrNoQuizQuestions) {
		t.Fatalf("want ErrNoQuizQuestions got %v", err)
	}
	if _, err := svc.SubmitAttempt(asUser(t, "stranger"), c.ID, nil, nil); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("private course: want not found got %v", err)
	}
}
