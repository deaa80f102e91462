package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorialhub-backend/internal/http/response"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

type QuizHandler struct {
	quiz services.QuizService
}

func NewQuizHandler(quiz services.QuizService) *QuizHandler {
	return &QuizHandler{quiz: quiz}
}

type submitAttemptRequest struct {
	ChapterIndex *int              `json:"chapter_index" binding:"omitempty,min=0"`
	Answers      map[string]string `json:"answers" binding:"required"`
}

// POST /api/courses/:courseId/quiz-attempts
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_answers", err)
		return
	}
	res, err := h.quiz.SubmitAttempt(reqDBC(c), id, req.ChapterIndex, req.Answers)
	if err != nil {
		response.RespondServiceError(c, "submit_attempt_failed", err)
		return
	}
	response.RespondCreated(c, res)
}

// GET /api/courses/:courseId/quiz-attempts
func (h *QuizHandler) ListAttempts(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	attempts, err := h.quiz.ListAttempts(reqDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "load_attempts_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": attempts})
}
