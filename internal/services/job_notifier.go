package services

import (
	"context"

	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	"github.com/yungbote/tutorialhub-backend/internal/realtime"
)

// JobNotifier pushes job lifecycle events to the owner's SSE channel.
type JobNotifier interface {
	JobCreated(userID string, job *types.JobRun)
	JobProgress(userID string, job *types.JobRun, stage string, progress int, message string)
	JobFailed(userID string, job *types.JobRun, stage string, errorMessage string)
	JobDone(userID string, job *types.JobRun)
}

type jobNotifier struct {
	emit SSEEmitter
}

func NewJobNotifier(emit SSEEmitter) JobNotifier {
	return &jobNotifier{emit: emit}
}

func (n *jobNotifier) send(userID string, event realtime.SSEEvent, data map[string]any) {
	if n == nil || n.emit == nil || userID == "" {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{Channel: userID, Event: event, Data: data})
}

func (n *jobNotifier) JobCreated(userID string, job *types.JobRun) {
	n.send(userID, realtime.SSEEventJobCreated, map[string]any{"job": job})
}

func (n *jobNotifier) JobProgress(userID string, job *types.JobRun, stage string, progress int, message string) {
	n.send(userID, realtime.SSEEventJobProgress, map[string]any{
		"job_id":   job.ID,
		"job_type": job.JobType,
		"stage":    stage,
		"progress": progress,
		"message":  message,
	})
}

func (n *jobNotifier) JobFailed(userID string, job *types.JobRun, stage string, errorMessage string) {
	n.send(userID, realtime.SSEEventJobFailed, map[string]any{
		"job_id":   job.ID,
		"job_type": job.JobType,
		"stage":    stage,
		"error":    errorMessage,
		"job":      job,
	})
}

func (n *jobNotifier) JobDone(userID string, job *types.JobRun) {
	n.send(userID, realtime.SSEEventJobDone, map[string]any{
		"job_id":   job.ID,
		"job_type": job.JobType,
		"job":      job,
	})
}
