package course

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
)

func seedCourse(t *testing.T, repo CourseRepo, dbc dbctx.Context, owner string, published bool) *types.Course {
	t.Helper()
	c := &types.Course{
		Name:        "Go Basics",
		Category:    "Programming",
		Level:       "Beginner",
		Outline:     datatypes.JSON([]byte(`{"course_name":"Go Basics","chapters":[{"chapter_name":"Intro"}]}`)),
		CreatedBy:   owner,
		IsPublished: published,
	}
	if _, err := repo.Create(dbc, []*types.Course{c}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return c
}

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: t.Context()}
	repo := NewCourseRepo(db, log)

	c := seedCourse(t, repo, dbc, "user_a", false)
	seedCourse(t, repo, dbc, "user_a", true)
	seedCourse(t, repo, dbc, "user_b", true)

	got, err := repo.GetByID(dbc, c.ID)
	if err != nil || got.Name != "Go Basics" || got.IncludeVideo != "Yes" {
		t.Fatalf("GetByID: %+v err=%v", got, err)
	}
	if _, err := repo.GetByID(dbc, uuid.New()); !errors.Is(err, repoerr.ErrNotFound) {
		t.Fatalf("GetByID missing: want ErrNotFound got %v", err)
	}
	if n, err := repo.CountByCreator(dbc, "user_a"); err != nil || n != 2 {
		t.Fatalf("CountByCreator: n=%d err=%v", n, err)
	}
	if rows, err := repo.ListByCreator(dbc, "user_b"); err != nil || len(rows) != 1 {
		t.Fatalf("ListByCreator: len=%d err=%v", len(rows), err)
	}
	if rows, err := repo.ListPublished(dbc, 10, 0); err != nil || len(rows) != 2 {
		t.Fatalf("ListPublished: len=%d err=%v", len(rows), err)
	}
	if err := repo.UpdateFields(dbc, c.ID, map[string]interface{}{"is_published": true}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if rows, _ := repo.ListPublished(dbc, 10, 0); len(rows) != 3 {
		t.Fatalf("after publish: want 3 got %d", len(rows))
	}
	if err := repo.UpdateFields(dbc, uuid.New(), map[string]interface{}{"banner": "x"}); !errors.Is(err, repoerr.ErrNotFound) {
		t.Fatalf("UpdateFields missing: %v", err)
	}
}

func TestCourseRepoDeleteCascades(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: t.Context()}
	courses := NewCourseRepo(db, log)
	content := NewChapterContentRepo(db, log)
	quiz := NewQuizQuestionRepo(db, log)

	c := seedCourse(t, courses, dbc, "user_a", false)
	if _, err := content.Create(dbc, []*types.ChapterContent{{CourseID: c.ID, ChapterIndex: 0, Content: datatypes.JSON([]byte("[]")), VideoID: "abc"}}); err != nil {
		t.Fatalf("content Create: %v", err)
	}
	if _, err := quiz.Create(dbc, []*types.QuizQuestion{{CourseID: c.ID, ChapterIndex: 0, QuestionText: "q", Options: datatypes.JSON([]byte("[]")), CorrectOptionID: "A"}}); err != nil {
		t.Fatalf("quiz Create: %v", err)
	}
	if err := courses.Delete(dbc, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := content.CountByCourseID(dbc, c.ID); n != 0 {
		t.Fatalf("content survived delete: %d", n)
	}
	if n, _ := quiz.CountByCourseID(dbc, c.ID); n != 0 {
		t.Fatalf("quiz survived delete: %d", n)
	}
	if err := courses.Delete(dbc, c.ID); !errors.Is(err, repoerr.ErrNotFound) {
		t.Fatalf("second Delete: want ErrNotFound got %v", err)
	}
}

func TestChapterContentUniquePerChapter(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: t.Context()}
	content := NewChapterContentRepo(db, log)

	courseID := uuid.New()
	row := func(idx int) *types.ChapterContent {
		return &types.ChapterContent{CourseID: courseID, ChapterIndex: idx, Content: datatypes.JSON([]byte("[]")), VideoID: types.VideoNotFound}
	}
	if _, err := content.Create(dbc, []*types.ChapterContent{row(1), row(0)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := content.Create(dbc, []*types.ChapterContent{row(0)}); !errors.Is(err, repoerr.ErrConflict) {
		t.Fatalf("duplicate chapter: want ErrConflict got %v", err)
	}
	rows, err := content.ListByCourseID(dbc, courseID)
	if err != nil || len(rows) != 2 || rows[0].ChapterIndex != 0 {
		t.Fatalf("ListByCourseID order: %+v err=%v", rows, err)
	}
	if n, err := content.DeleteByCourseID(dbc, courseID); err != nil || n != 2 {
		t.Fatalf("DeleteByCourseID: n=%d err=%v", n, err)
	}
}

func TestQuizQuestionAndAttemptRepos(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: t.Context()}
	quiz := NewQuizQuestionRepo(db, log)
	attempts := NewQuizAttemptRepo(db, log)

	courseID := uuid.New()
	var rows []*types.QuizQuestion
	for ch := 0; ch < 2; ch++ {
		for pos := 0; pos < 3; pos++ {
			rows = append(rows, &types.QuizQuestion{
				CourseID: courseID, ChapterIndex: ch, Position: pos,
				QuestionText: "q", Options: datatypes.JSON([]byte(`[{"id":"A","text":"a"}]`)), CorrectOptionID: "A", AIGenerated: true,
			})
		}
	}
	if _, err := quiz.Create(dbc, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}
	chapter, err := quiz.ListByCourseChapter(dbc, courseID, 1)
	if err != nil || len(chapter) != 3 {
		t.Fatalf("ListByCourseChapter: len=%d err=%v", len(chapter), err)
	}
	byID, err := quiz.GetByIDs(dbc, []uuid.UUID{rows[0].ID, rows[5].ID})
	if err != nil || len(byID) != 2 {
		t.Fatalf("GetByIDs: len=%d err=%v", len(byID), err)
	}
	opts, err := byID[0].OptionList()
	if err != nil || len(opts) != 1 || opts[0].ID != "A" {
		t.Fatalf("OptionList: %+v err=%v", opts, err)
	}

	if _, err := attempts.Create(dbc, []*types.QuizAttempt{{UserID: "u", CourseID: courseID, Score: 2, TotalQuestions: 3}}); err != nil {
		t.Fatalf("attempt Create: %v", err)
	}
	got, err := attempts.ListByUserCourse(dbc, "u", courseID)
	if err != nil || len(got) != 1 || got[0].AttemptedAt.IsZero() {
		t.Fatalf("ListByUserCourse: %+v err=%v", got, err)
	}
}
