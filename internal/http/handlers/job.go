package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorialhub-backend/internal/http/response"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

type JobHandler struct {
	jobs services.JobService
}

func NewJobHandler(jobs services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "id", "invalid_job_id")
	if !ok {
		return
	}
	job, err := h.jobs.GetByIDForRequestUser(reqDBC(c), jobID)
	if err != nil {
		response.RespondServiceError(c, "load_job_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// POST /api/jobs/:id/cancel
func (h *JobHandler) CancelJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "id", "invalid_job_id")
	if !ok {
		return
	}
	job, err := h.jobs.CancelForRequestUser(reqDBC(c), jobID)
	if err != nil {
		response.RespondServiceError(c, "cancel_job_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
