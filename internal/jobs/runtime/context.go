package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	domainjobs "github.com/yungbote/tutorialhub-backend/internal/domain/jobs"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

/*
Context is the execution handle for a single claimed job run. Handlers never
touch job_run directly; every state transition goes through Progress, Fail,
FailPermanent or Succeed, each guarded so a canceled job is never overwritten.
*/
type Context struct {
	Ctx    context.Context
	Job    *types.JobRun
	Repo   repos.JobRunRepo
	Notify services.JobNotifier
	// MaxAttempts is the retry budget the claiming worker uses.
	MaxAttempts int

	payload map[string]any
}

var guarded = []string{domainjobs.StatusCanceled}

func NewContext(ctx context.Context, job *types.JobRun, repo repos.JobRunRepo, notify services.JobNotifier) *Context {
	c := &Context{
		Ctx:    ctxutil.Default(ctx),
		Job:    job,
		Repo:   repo,
		Notify: notify,
	}
	_ = c.decodePayload()
	c.applyTraceData()
	return c
}

func (c *Context) decodePayload() error {
	if c.Job == nil {
		return nil
	}
	if len(c.Job.Payload) == 0 {
		c.payload = map[string]any{}
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(c.Job.Payload, &m); err != nil {
		c.payload = map[string]any{}
		return err
	}
	c.payload = m
	return nil
}

func (c *Context) applyTraceData() {
	traceID := c.PayloadString("trace_id")
	reqID := c.PayloadString("request_id")
	if traceID == "" && reqID == "" {
		return
	}
	c.Ctx = ctxutil.WithTraceData(c.Ctx, &ctxutil.TraceData{TraceID: traceID, RequestID: reqID})
}

// Payload never returns nil.
func (c *Context) Payload() map[string]any {
	if c.payload == nil {
		c.payload = map[string]any{}
	}
	return c.payload
}

func (c *Context) PayloadString(key string) string {
	v, ok := c.Payload()[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func (c *Context) PayloadUUID(key string) (uuid.UUID, bool) {
	s := c.PayloadString(key)
	if s == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func (c *Context) update(updates map[string]interface{}) bool {
	if c.Repo == nil || c.Job == nil || c.Job.ID == uuid.Nil {
		return true
	}
	ok, err := c.Repo.UpdateFieldsUnlessStatus(dbctx.New(context.WithoutCancel(c.Ctx)), c.Job.ID, guarded, updates)
	return err == nil && ok
}

// Progress records a non-terminal status line and refreshes the heartbeat.
func (c *Context) Progress(stage string, pct int, msg string) {
	if c == nil {
		return
	}
	now := time.Now()
	if !c.update(map[string]interface{}{
		"stage":        stage,
		"progress":     pct,
		"message":      msg,
		"heartbeat_at": now,
		"updated_at":   now,
	}) {
		return
	}
	if c.Job != nil {
		c.Job.Stage = stage
		c.Job.Progress = pct
		c.Job.Message = msg
		c.Job.HeartbeatAt = &now
		c.Job.UpdatedAt = now
	}
	if c.Notify != nil && c.Job != nil {
		c.Notify.JobProgress(c.Job.OwnerUserID, c.Job, stage, pct, msg)
	}
}

// Fail marks the run failed; the worker retries it until attempts run out.
func (c *Context) Fail(stage string, err error) {
	c.fail(stage, err, false)
}

// FailPermanent marks the run failed and spends the remaining retry budget.
func (c *Context) FailPermanent(stage string, err error) {
	c.fail(stage, err, true)
}

func (c *Context) fail(stage string, err error, permanent bool) {
	if c == nil {
		return
	}
	now := time.Now()
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	updates := map[string]interface{}{
		"status":        domainjobs.StatusFailed,
		"stage":         stage,
		"message":       "",
		"error":         msg,
		"last_error_at": now,
		"locked_at":     nil,
		"updated_at":    now,
	}
	if permanent && c.MaxAttempts > 0 {
		updates["attempts"] = c.MaxAttempts
	}
	if !c.update(updates) {
		return
	}
	if c.Job != nil {
		c.Job.Status = domainjobs.StatusFailed
		c.Job.Stage = stage
		c.Job.Message = ""
		c.Job.Error = msg
		c.Job.LastErrorAt = &now
		c.Job.LockedAt = nil
		c.Job.UpdatedAt = now
		if permanent && c.MaxAttempts > 0 {
			c.Job.Attempts = c.MaxAttempts
		}
	}
	if c.Notify != nil && c.Job != nil {
		c.Notify.JobFailed(c.Job.OwnerUserID, c.Job, stage, msg)
	}
}

// Succeed stores result as JSON and marks the run done.
func (c *Context) Succeed(finalStage string, result any) {
	if c == nil {
		return
	}
	now := time.Now()
	var res datatypes.JSON
	if result != nil {
		b, _ := json.Marshal(result)
		res = datatypes.JSON(b)
	}
	if !c.update(map[string]interface{}{
		"status":       domainjobs.StatusSucceeded,
		"stage":        finalStage,
		"progress":     100,
		"message":      "",
		"error":        "",
		"result":       res,
		"locked_at":    nil,
		"heartbeat_at": now,
		"updated_at":   now,
	}) {
		return
	}
	if c.Job != nil {
		c.Job.Status = domainjobs.StatusSucceeded
		c.Job.Stage = finalStage
		c.Job.Progress = 100
		c.Job.Message = ""
		c.Job.Error = ""
		c.Job.Result = res
		c.Job.LockedAt = nil
		c.Job.HeartbeatAt = &now
		c.Job.UpdatedAt = now
	}
	if c.Notify != nil && c.Job != nil {
		c.Notify.JobDone(c.Job.OwnerUserID, c.Job)
	}
}
