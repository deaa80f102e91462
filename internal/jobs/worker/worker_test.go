package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	domainjobs "github.com/yungbote/tutorialhub-backend/internal/domain/jobs"
	"github.com/yungbote/tutorialhub-backend/internal/jobs/runtime"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
)

type funcHandler struct {
	jobType string
	run     func(jc *runtime.Context) error
}

func (h funcHandler) Type() string                  { return h.jobType }
func (h funcHandler) Run(jc *runtime.Context) error { return h.run(jc) }

func enqueue(t *testing.T, repo repos.JobRunRepo, jobType string) *types.JobRun {
	t.Helper()
	now := time.Now()
	job := &types.JobRun{
		ID:          uuid.New(),
		OwnerUserID: "user_1",
		JobType:     jobType,
		Status:      domainjobs.StatusQueued,
		Stage:       "queued",
		Payload:     datatypes.JSON([]byte(`{"course_id":"x"}`)),
		Result:      datatypes.JSON([]byte(`{}`)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := repo.Create(dbctx.New(t.Context()), []*types.JobRun{job}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return job
}

func setup(t *testing.T, handlers ...runtime.Handler) (*Worker, repos.JobRunRepo) {
	t.Helper()
	log := testutil.Logger(t)
	repo := repos.NewJobRunRepo(testutil.DB(t), log)
	reg, err := runtime.NewRegistry(handlers...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	w := NewWorker(Config{MaxAttempts: 3, WatchInterval: 10 * time.Millisecond}, log, repo, reg, nil, nil)
	return w, repo
}

func reload(t *testing.T, repo repos.JobRunRepo, id uuid.UUID) *types.JobRun {
	t.Helper()
	job, err := repo.GetByID(dbctx.New(t.Context()), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return job
}

func TestRunOnceSucceeds(t *testing.T) {
	w, repo := setup(t, funcHandler{jobType: "demo", run: func(jc *runtime.Context) error {
		if jc.PayloadString("course_id") != "x" {
			t.Errorf("payload not decoded: %v", jc.Payload())
		}
		jc.Progress("work", 50, "half")
		jc.Succeed("done", map[string]any{"ok": true})
		return nil
	}})
	job := enqueue(t, repo, "demo")

	if !w.RunOnce(t.Context(), 1) {
		t.Fatalf("expected a job to run")
	}
	got := reload(t, repo, job.ID)
	if got.Status != domainjobs.StatusSucceeded || got.Progress != 100 || got.Attempts != 1 {
		t.Fatalf("unexpected job: status=%s progress=%d attempts=%d", got.Status, got.Progress, got.Attempts)
	}
	if w.RunOnce(t.Context(), 1) {
		t.Fatalf("queue should be empty")
	}
}

func TestRunOnceHandlerErrorIsRetryable(t *testing.T) {
	w, repo := setup(t, funcHandler{jobType: "demo", run: func(jc *runtime.Context) error {
		return errors.New("boom")
	}})
	job := enqueue(t, repo, "demo")

	w.RunOnce(t.Context(), 1)
	got := reload(t, repo, job.ID)
	if got.Status != domainjobs.StatusFailed || got.Error != "boom" || got.Attempts != 1 {
		t.Fatalf("unexpected job: status=%s error=%q attempts=%d", got.Status, got.Error, got.Attempts)
	}
}

func TestRunOnceRecoversPanic(t *testing.T) {
	w, repo := setup(t, funcHandler{jobType: "demo", run: func(jc *runtime.Context) error {
		panic("kaboom")
	}})
	job := enqueue(t, repo, "demo")

	w.RunOnce(t.Context(), 1)
	got := reload(t, repo, job.ID)
	if got.Status != domainjobs.StatusFailed || got.Stage != "panic" {
		t.Fatalf("unexpected job: status=%s stage=%s", got.Status, got.Stage)
	}
}

func TestRunOnceUnknownTypeFailsPermanently(t *testing.T) {
	w, repo := setup(t)
	job := enqueue(t, repo, "mystery")

	w.RunOnce(t.Context(), 1)
	got := reload(t, repo, job.ID)
	if got.Status != domainjobs.StatusFailed || got.Attempts != 3 {
		t.Fatalf("unexpected job: status=%s attempts=%d", got.Status, got.Attempts)
	}
	if w.RunOnce(t.Context(), 1) {
		t.Fatalf("exhausted job should not be claimed again")
	}
}

func TestRunOnceStopsCanceledJob(t *testing.T) {
	started := make(chan struct{})
	stopped := make(chan bool, 1)
	seen := make(chan string, 1)
	w, repo := setup(t, funcHandler{jobType: "demo", run: func(jc *runtime.Context) error {
		close(started)
		select {
		case <-jc.Ctx.Done():
			stopped <- true
		case <-time.After(5 * time.Second):
			stopped <- false
		}
		// The handler owns jc.Job; cancellation arrives only through the context.
		seen <- jc.Job.Status
		return nil
	}})
	job := enqueue(t, repo, "demo")

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.RunOnce(t.Context(), 1)
	}()
	<-started
	if _, err := repo.UpdateFieldsUnlessStatus(dbctx.New(t.Context()), job.ID, nil, map[string]interface{}{"status": domainjobs.StatusCanceled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	<-done

	if !<-stopped {
		t.Fatalf("handler context was not canceled")
	}
	if status := <-seen; status != domainjobs.StatusRunning {
		t.Fatalf("handler's job copy was modified: status=%s", status)
	}
	if got := reload(t, repo, job.ID); got.Status != domainjobs.StatusCanceled {
		t.Fatalf("status: want=%s got=%s", domainjobs.StatusCanceled, got.Status)
	}
}
