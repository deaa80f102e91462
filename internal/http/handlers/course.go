package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/http/response"
	"github.com/yungbote/tutorialhub-backend/internal/modules/coursegen"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

// CourseCreator builds a course outline from user input.
type CourseCreator interface {
	CreateCourse(ctx context.Context, author coursegen.Author, in coursegen.UserInput) (*types.Course, error)
}

type CourseHandler struct {
	log     *logger.Logger
	creator CourseCreator
	courses services.CourseService
	jobs    services.JobService
}

func NewCourseHandler(log *logger.Logger, creator CourseCreator, courses services.CourseService, jobs services.JobService) *CourseHandler {
	return &CourseHandler{
		log:     log.With("handler", "CourseHandler"),
		creator: creator,
		courses: courses,
		jobs:    jobs,
	}
}

// POST /api/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var in coursegen.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	author := coursegen.Author{}
	if rd != nil {
		author = coursegen.Author{UserID: rd.UserID, Username: rd.Username, ImageURL: rd.ImageURL}
	}
	course, err := h.creator.CreateCourse(c.Request.Context(), author, in)
	if err != nil {
		response.RespondServiceError(c, "create_course_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

// GET /api/courses
func (h *CourseHandler) ListUserCourses(c *gin.Context) {
	courses, err := h.courses.ListMine(reqDBC(c))
	if err != nil {
		h.log.Error("ListUserCourses failed", "error", err)
		response.RespondServiceError(c, "load_courses_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/courses/explore?limit=&offset=
func (h *CourseHandler) Explore(c *gin.Context) {
	limit := intQuery(c, "limit", 20, 100)
	offset := intQuery(c, "offset", 0, 0)
	courses, err := h.courses.Explore(reqDBC(c), limit, offset)
	if err != nil {
		response.RespondServiceError(c, "load_courses_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses, "limit": limit, "offset": offset})
}

// GET /api/courses/:courseId
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	detail, err := h.courses.GetDetail(reqDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "load_course_failed", err)
		return
	}
	response.RespondOK(c, detail)
}

// PATCH /api/courses/:courseId/banner
func (h *CourseHandler) UpdateBanner(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	var req struct {
		Banner string `json:"banner" binding:"required,url,max=2048"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_banner", err)
		return
	}
	course, err := h.courses.UpdateBanner(reqDBC(c), id, req.Banner)
	if err != nil {
		response.RespondServiceError(c, "update_banner_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// DELETE /api/courses/:courseId
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	if err := h.courses.Delete(reqDBC(c), id); err != nil {
		response.RespondServiceError(c, "delete_course_failed", err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/courses/:courseId/generate
func (h *CourseHandler) GenerateContent(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	job, err := h.courses.RequestContent(reqDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "enqueue_generation_failed", err)
		return
	}
	response.RespondAccepted(c, gin.H{"job": job})
}

// GET /api/courses/:courseId/generate
func (h *CourseHandler) LatestGeneration(c *gin.Context) {
	id, ok := uuidParam(c, "courseId", "invalid_course_id")
	if !ok {
		return
	}
	job, err := h.jobs.GetLatestForEntityForRequestUser(reqDBC(c), services.EntityTypeCourse, id, services.JobTypeCourseContentGenerate)
	if err != nil {
		response.RespondServiceError(c, "load_job_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
