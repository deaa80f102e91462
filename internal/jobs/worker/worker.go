package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	domainjobs "github.com/yungbote/tutorialhub-backend/internal/domain/jobs"
	"github.com/yungbote/tutorialhub-backend/internal/jobs/runtime"
	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

type Config struct {
	Concurrency  int           `koanf:"concurrency"`
	PollInterval time.Duration `koanf:"poll"`
	MaxAttempts  int           `koanf:"maxattempts"`
	RetryDelay   time.Duration `koanf:"retrydelay"`
	StaleRunning time.Duration `koanf:"stale"`
	// WatchInterval paces heartbeats and cancel checks for a running job.
	WatchInterval time.Duration `koanf:"watch"`
}

func (c Config) withDefaults() Config {
	if c.Concurrency < 1 {
		c.Concurrency = 2
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = domainjobs.DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 30 * time.Second
	}
	if c.StaleRunning <= 0 {
		c.StaleRunning = 30 * time.Minute
	}
	if c.WatchInterval <= 0 {
		c.WatchInterval = 10 * time.Second
	}
	return c
}

type Worker struct {
	cfg      Config
	log      *logger.Logger
	repo     repos.JobRunRepo
	registry *runtime.Registry
	notify   services.JobNotifier
	metrics  *observability.Metrics
}

func NewWorker(cfg Config, baseLog *logger.Logger, repo repos.JobRunRepo, registry *runtime.Registry, notify services.JobNotifier, metrics *observability.Metrics) *Worker {
	return &Worker{
		cfg:      cfg.withDefaults(),
		log:      baseLog.With("component", "JobWorker"),
		repo:     repo,
		registry: registry,
		notify:   notify,
		metrics:  metrics,
	}
}

// Run polls for jobs until ctx ends, then waits for in-flight jobs to return.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Starting job worker pool", "concurrency", w.cfg.Concurrency, "job_types", w.registry.Types())
	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.runLoop(ctx, workerID)
		}(i + 1)
	}
	wg.Wait()
	return nil
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Worker loop stopped", "worker_id", workerID)
			return
		case <-ticker.C:
			for w.RunOnce(ctx, workerID) {
				if ctx.Err() != nil {
					return
				}
			}
		}
	}
}

// RunOnce claims and executes at most one job. It reports whether a job ran.
func (w *Worker) RunOnce(ctx context.Context, workerID int) bool {
	job, err := w.repo.ClaimNextRunnable(dbctx.New(ctx), w.cfg.MaxAttempts, w.cfg.RetryDelay, w.cfg.StaleRunning)
	if err != nil {
		w.log.Warn("ClaimNextRunnable failed", "worker_id", workerID, "error", err)
		return false
	}
	if job == nil {
		return false
	}
	log := w.log.With("worker_id", workerID, "job_id", job.ID.String(), "job_type", job.JobType, "attempt", job.Attempts)
	start := time.Now()

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	jc := runtime.NewContext(jobCtx, job, w.repo, w.notify)
	jc.MaxAttempts = w.cfg.MaxAttempts

	h, ok := w.registry.Get(job.JobType)
	if !ok {
		log.Warn("No handler registered for job_type")
		jc.FailPermanent("dispatch", fmt.Errorf("no handler registered for job_type=%s", job.JobType))
		w.metrics.ObserveJob(job.JobType, domainjobs.StatusFailed, time.Since(start))
		return true
	}

	watchDone := make(chan struct{})
	go w.watch(jobCtx, job.ID, cancel, watchDone)

	log.Info("Job started")
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Job handler panic", "panic", r)
				jc.Fail("panic", fmt.Errorf("panic: %v", r))
			}
		}()
		if runErr := h.Run(jc); runErr != nil {
			jc.Fail("run", runErr)
		}
	}()
	cancel()
	<-watchDone

	status := job.Status
	if status == domainjobs.StatusRunning {
		if latest, err := w.repo.GetByID(dbctx.New(context.WithoutCancel(ctx)), job.ID); err == nil {
			status = latest.Status
		}
	}
	w.metrics.ObserveJob(job.JobType, status, time.Since(start))
	log.Info("Job finished", "status", status, "duration", time.Since(start).String())
	return true
}

// watch keeps the heartbeat fresh and cancels the job once its row is marked
// canceled. It never touches the handler's copy of the job; RunOnce reads the
// final status back from the row.
func (w *Worker) watch(ctx context.Context, jobID uuid.UUID, cancel context.CancelFunc, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.cfg.WatchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dbc := dbctx.New(ctx)
			latest, err := w.repo.GetByID(dbc, jobID)
			if err != nil {
				continue
			}
			if latest.Status == domainjobs.StatusCanceled {
				w.log.Info("Job canceled; stopping handler", "job_id", jobID.String())
				cancel()
				return
			}
			_ = w.repo.Heartbeat(dbc, jobID)
		}
	}
}
