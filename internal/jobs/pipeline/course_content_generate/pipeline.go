package course_content_generate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	jobrt "github.com/yungbote/tutorialhub-backend/internal/jobs/runtime"
	"github.com/yungbote/tutorialhub-backend/internal/modules/coursegen"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	courseID, ok := jc.PayloadUUID("course_id")
	if !ok && jc.Job.EntityID != nil {
		courseID, ok = *jc.Job.EntityID, true
	}
	if !ok {
		jc.FailPermanent("validate", fmt.Errorf("missing course_id"))
		return nil
	}
	log := p.log.With("job_id", jc.Job.ID.String(), "course_id", courseID.String())

	course, err := p.courses.GetByID(dbctx.New(jc.Ctx), courseID)
	if errors.Is(err, repos.ErrNotFound) {
		jc.FailPermanent("load", fmt.Errorf("course %s not found", courseID))
		return nil
	}
	if err != nil {
		jc.Fail("load", err)
		return nil
	}

	sink := progressSink(jc)
	res, err := p.gen.Generate(jc.Ctx, course, sink)
	switch {
	case errors.Is(err, coursegen.ErrNoChapters), errors.Is(err, coursegen.ErrAIUnavailable):
		jc.FailPermanent("generate", err)
		return nil
	case err != nil && jc.Ctx.Err() != nil:
		// Canceled by the user or by shutdown; the row already says so or will be reclaimed.
		log.Warn("content generation interrupted", "error", err)
		return nil
	case err != nil:
		jc.Fail("generate", err)
		return nil
	}

	if err := p.courses.UpdateFields(dbctx.New(jc.Ctx), courseID, map[string]interface{}{"is_published": true}); err != nil {
		jc.Fail("publish", err)
		return nil
	}
	jc.Succeed("done", res)
	return nil
}

var counterRE = regexp.MustCompile(`\((\d+)/(\d+)\)`)

// progressSink turns generator status lines into job progress. Chapter lines
// carry an "(i/N)" counter that drives the percentage.
func progressSink(jc *jobrt.Context) coursegen.ProgressFunc {
	pct := 0
	return func(msg string) {
		switch msg {
		case coursegen.MsgCleared:
			pct = 5
		case coursegen.MsgCompleted:
			pct = 99
		default:
			if m := counterRE.FindStringSubmatch(msg); m != nil {
				i, _ := strconv.Atoi(m[1])
				n, _ := strconv.Atoi(m[2])
				if n > 0 && i > 0 {
					if next := 5 + (i-1)*90/n; next > pct {
						pct = next
					}
				}
			}
		}
		jc.Progress("generate", pct, msg)
	}
}
