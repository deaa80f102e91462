package jobs

import (
	"errors"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	domainjobs "github.com/yungbote/tutorialhub-backend/internal/domain/jobs"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type JobRunRepo interface {
	Create(dbc dbctx.Context, jobs []*types.JobRun) ([]*types.JobRun, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.JobRun, error)
	GetLatestByEntity(dbc dbctx.Context, ownerUserID string, entityType string, entityID uuid.UUID, jobType string) (*types.JobRun, error)
	ClaimNextRunnable(dbc dbctx.Context, maxAttempts int, retryDelay time.Duration, staleRunning time.Duration) (*types.JobRun, error)
	UpdateFieldsUnlessStatus(dbc dbctx.Context, id uuid.UUID, disallowedStatuses []string, updates map[string]interface{}) (bool, error)
	Heartbeat(dbc dbctx.Context, id uuid.UUID) error
	// HasRunnableForEntity counts queued and running jobs plus failed jobs that
	// still have retries left under maxAttempts.
	HasRunnableForEntity(dbc dbctx.Context, entityType string, entityID uuid.UUID, jobType string, maxAttempts int) (bool, error)
	// CreateExclusive inserts job unless its entity already has a runnable job
	// of the same type. Concurrent callers for one entity are serialized.
	CreateExclusive(dbc dbctx.Context, job *types.JobRun, maxAttempts int) (bool, error)
}

type jobRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return &jobRunRepo{db: db, log: baseLog.With("repo", "JobRunRepo")}
}

func (r *jobRunRepo) Create(dbc dbctx.Context, jobs []*types.JobRun) ([]*types.JobRun, error) {
	if len(jobs) == 0 {
		return []*types.JobRun{}, nil
	}
	if err := dbc.Resolve(r.db).Create(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRunRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.JobRun, error) {
	var job types.JobRun
	if err := dbc.Resolve(r.db).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, repoerr.Translate(err)
	}
	return &job, nil
}

func (r *jobRunRepo) GetLatestByEntity(dbc dbctx.Context, ownerUserID string, entityType string, entityID uuid.UUID, jobType string) (*types.JobRun, error) {
	if ownerUserID == "" || entityID == uuid.Nil || entityType == "" || jobType == "" {
		return nil, nil
	}
	var job types.JobRun
	err := dbc.Resolve(r.db).
		Where("owner_user_id = ? AND entity_type = ? AND entity_id = ? AND job_type = ?", ownerUserID, entityType, entityID, jobType).
		Order("created_at DESC").
		Limit(1).
		Find(&job).Error
	if err != nil {
		return nil, err
	}
	if job.ID == uuid.Nil {
		return nil, nil
	}
	return &job, nil
}

// ClaimNextRunnable picks the oldest queued job, a failed job due for retry, or a
// running job whose heartbeat went stale, and marks it running. Row locks are
// only requested on Postgres.
func (r *jobRunRepo) ClaimNextRunnable(dbc dbctx.Context, maxAttempts int, retryDelay time.Duration, staleRunning time.Duration) (*types.JobRun, error) {
	now := time.Now()
	retryCutoff := now.Add(-retryDelay)
	staleCutoff := now.Add(-staleRunning)
	var claimed *types.JobRun
	err := dbc.Resolve(r.db).Transaction(func(txx *gorm.DB) error {
		q := txx
		if txx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		var job types.JobRun
		qErr := q.Where(`
        (
          status = ?
          OR (
            status = ?
            AND attempts < ?
            AND (last_error_at IS NULL OR last_error_at < ?)
          )
          OR (
            status = ?
            AND heartbeat_at IS NOT NULL
            AND heartbeat_at < ?
          )
        )
      `, domainjobs.StatusQueued, domainjobs.StatusFailed, maxAttempts, retryCutoff, domainjobs.StatusRunning, staleCutoff).
			Order("created_at ASC").
			First(&job).Error
		if errors.Is(qErr, gorm.ErrRecordNotFound) {
			return nil
		}
		if qErr != nil {
			return qErr
		}
		uErr := txx.Model(&types.JobRun{}).
			Where("id = ?", job.ID).
			Updates(map[string]interface{}{
				"status":       domainjobs.StatusRunning,
				"attempts":     gorm.Expr("attempts + 1"),
				"locked_at":    now,
				"heartbeat_at": now,
				"updated_at":   now,
			}).Error
		if uErr != nil {
			return uErr
		}
		job.Status = domainjobs.StatusRunning
		job.Attempts++
		job.LockedAt = &now
		job.HeartbeatAt = &now
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *jobRunRepo) UpdateFieldsUnlessStatus(dbc dbctx.Context, id uuid.UUID, disallowedStatuses []string, updates map[string]interface{}) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	q := dbc.Resolve(r.db).Model(&types.JobRun{}).Where("id = ?", id)
	if len(disallowedStatuses) == 1 {
		q = q.Where("status <> ?", disallowedStatuses[0])
	} else if len(disallowedStatuses) > 1 {
		q = q.Where("status NOT IN ?", disallowedStatuses)
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *jobRunRepo) Heartbeat(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	now := time.Now()
	return dbc.Resolve(r.db).Model(&types.JobRun{}).
		Where("id = ? AND status = ?", id, domainjobs.StatusRunning).
		Updates(map[string]interface{}{"heartbeat_at": now, "updated_at": now}).Error
}

func (r *jobRunRepo) HasRunnableForEntity(dbc dbctx.Context, entityType string, entityID uuid.UUID, jobType string, maxAttempts int) (bool, error) {
	if entityID == uuid.Nil || entityType == "" || jobType == "" {
		return false, nil
	}
	if maxAttempts < 1 {
		maxAttempts = domainjobs.DefaultMaxAttempts
	}
	var count int64
	err := dbc.Resolve(r.db).Model(&types.JobRun{}).
		Where("entity_type = ? AND entity_id = ? AND job_type = ?", entityType, entityID, jobType).
		Where("status IN ? OR (status = ? AND attempts < ?)",
			[]string{domainjobs.StatusQueued, domainjobs.StatusRunning}, domainjobs.StatusFailed, maxAttempts).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *jobRunRepo) CreateExclusive(dbc dbctx.Context, job *types.JobRun, maxAttempts int) (bool, error) {
	if job == nil || job.EntityID == nil || job.EntityType == "" {
		return false, errors.New("exclusive job needs an entity")
	}
	created := false
	err := dbc.Resolve(r.db).Transaction(func(txx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}
		// sqlite serializes writers on its own.
		if txx.Dialector.Name() == "postgres" {
			key := entityLockKey(job.EntityType+":"+job.JobType, *job.EntityID)
			if err := txx.Exec("SELECT pg_advisory_xact_lock(?)", key).Error; err != nil {
				return err
			}
		}
		busy, err := r.HasRunnableForEntity(inner, job.EntityType, *job.EntityID, job.JobType, maxAttempts)
		if err != nil || busy {
			return err
		}
		if err := txx.Create(job).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func entityLockKey(namespace string, id uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(namespace))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(id.String()))
	return int64(h.Sum64())
}
