package coursegen

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
)

type repoStore struct {
	content repos.ChapterContentRepo
	quiz    repos.QuizQuestionRepo
}

// NewRepoStore persists generator output through the chapter content and quiz repos.
func NewRepoStore(content repos.ChapterContentRepo, quiz repos.QuizQuestionRepo) ContentStore {
	return &repoStore{content: content, quiz: quiz}
}

func (s *repoStore) DeleteCourseContent(ctx context.Context, courseID uuid.UUID) error {
	dbc := dbctx.New(ctx)
	if _, err := s.content.DeleteByCourseID(dbc, courseID); err != nil {
		return fmt.Errorf("delete chapter content: %w", err)
	}
	if _, err := s.quiz.DeleteByCourseID(dbc, courseID); err != nil {
		return fmt.Errorf("delete quiz questions: %w", err)
	}
	return nil
}

func (s *repoStore) SaveChapterContent(ctx context.Context, row *types.ChapterContent) error {
	_, err := s.content.Create(dbctx.New(ctx), []*types.ChapterContent{row})
	return err
}

func (s *repoStore) SaveQuizQuestions(ctx context.Context, rows []*types.QuizQuestion) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := s.quiz.Create(dbctx.New(ctx), rows)
	return err
}
