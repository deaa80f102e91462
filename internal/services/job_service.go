package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	domainjobs "github.com/yungbote/tutorialhub-backend/internal/domain/jobs"
	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

const (
	JobTypeCourseContentGenerate = "course_content_generate"
	EntityTypeCourse             = "course"
)

var (
	ErrJobNotFound      = apierr.NotFound("job_not_found", errors.New("job not found"))
	ErrJobAlreadyActive = apierr.Conflict("job_already_running", errors.New("a job for this entity is already queued or running"))
)

type JobService interface {
	// Enqueue stores a queued job. With an entity set, a second runnable job of
	// the same type for that entity is rejected with ErrJobAlreadyActive.
	Enqueue(dbc dbctx.Context, ownerUserID string, jobType string, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, error)
	GetByIDForRequestUser(dbc dbctx.Context, jobID uuid.UUID) (*types.JobRun, error)
	GetLatestForEntityForRequestUser(dbc dbctx.Context, entityType string, entityID uuid.UUID, jobType string) (*types.JobRun, error)
	CancelForRequestUser(dbc dbctx.Context, jobID uuid.UUID) (*types.JobRun, error)
}

type jobService struct {
	log         *logger.Logger
	repo        repos.JobRunRepo
	notify      JobNotifier
	maxAttempts int
}

// NewJobService takes the worker's retry budget so a failed job that will
// still be retried keeps blocking new jobs for its entity.
func NewJobService(baseLog *logger.Logger, repo repos.JobRunRepo, notify JobNotifier, maxAttempts int) JobService {
	if maxAttempts < 1 {
		maxAttempts = domainjobs.DefaultMaxAttempts
	}
	return &jobService{
		log:         baseLog.With("service", "JobService"),
		repo:        repo,
		notify:      notify,
		maxAttempts: maxAttempts,
	}
}

func (s *jobService) Enqueue(dbc dbctx.Context, ownerUserID string, jobType string, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, error) {
	if ownerUserID == "" {
		return nil, fmt.Errorf("missing owner_user_id")
	}
	if jobType == "" {
		return nil, fmt.Errorf("missing job_type")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if td := ctxutil.GetTraceData(dbc.Ctx); td != nil {
		if _, ok := payload["trace_id"]; !ok && td.TraceID != "" {
			payload["trace_id"] = td.TraceID
		}
		if _, ok := payload["request_id"]; !ok && td.RequestID != "" {
			payload["request_id"] = td.RequestID
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	now := time.Now()
	job := &types.JobRun{
		OwnerUserID: ownerUserID,
		JobType:     jobType,
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      domainjobs.StatusQueued,
		Stage:       "queued",
		Message:     "Queued",
		Payload:     datatypes.JSON(raw),
		Result:      datatypes.JSON([]byte(`{}`)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if entityID != nil && entityType != "" {
		created, err := s.repo.CreateExclusive(dbc, job, s.maxAttempts)
		if err != nil {
			return nil, fmt.Errorf("create job: %w", err)
		}
		if !created {
			return nil, ErrJobAlreadyActive
		}
	} else if _, err := s.repo.Create(dbc, []*types.JobRun{job}); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.log.Info("Job enqueued", "job_id", job.ID.String(), "job_type", jobType, "user_id", ownerUserID)
	if s.notify != nil {
		s.notify.JobCreated(ownerUserID, job)
	}
	return job, nil
}

func (s *jobService) GetByIDForRequestUser(dbc dbctx.Context, jobID uuid.UUID) (*types.JobRun, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	job, err := s.repo.GetByID(dbc, jobID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	if job.OwnerUserID != userID {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *jobService) GetLatestForEntityForRequestUser(dbc dbctx.Context, entityType string, entityID uuid.UUID, jobType string) (*types.JobRun, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	job, err := s.repo.GetLatestByEntity(dbc, userID, entityType, entityID, jobType)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// CancelForRequestUser marks a queued, running or failed job canceled. The
// worker notices and stops it between steps. Finished jobs are returned as-is.
func (s *jobService) CancelForRequestUser(dbc dbctx.Context, jobID uuid.UUID) (*types.JobRun, error) {
	job, err := s.GetByIDForRequestUser(dbc, jobID)
	if err != nil {
		return nil, err
	}
	if job.Terminal() {
		return job, nil
	}
	now := time.Now()
	ok, err := s.repo.UpdateFieldsUnlessStatus(dbc, jobID,
		[]string{domainjobs.StatusSucceeded, domainjobs.StatusCanceled},
		map[string]interface{}{
			"status":     domainjobs.StatusCanceled,
			"message":    "Canceled",
			"locked_at":  nil,
			"updated_at": now,
		})
	if err != nil {
		return nil, fmt.Errorf("cancel job: %w", err)
	}
	if ok {
		s.log.Info("Job canceled", "job_id", jobID.String())
	}
	return s.repo.GetByID(dbc, jobID)
}
