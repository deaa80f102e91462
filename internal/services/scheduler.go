package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

// DefaultExpirySchedule runs the subscription sweep daily just after midnight.
const DefaultExpirySchedule = "5 0 * * *"

type Scheduler struct {
	log  *logger.Logger
	cron *cron.Cron
}

// NewScheduler registers periodic maintenance. An empty spec uses DefaultExpirySchedule.
func NewScheduler(baseLog *logger.Logger, billing BillingService, expirySpec string) (*Scheduler, error) {
	if expirySpec == "" {
		expirySpec = DefaultExpirySchedule
	}
	log := baseLog.With("service", "Scheduler")
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{log})))
	_, err := c.AddFunc(expirySpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := billing.ExpireSubscriptions(ctx); err != nil {
			log.Error("subscription expiry sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule subscription expiry %q: %w", expirySpec, err)
	}
	return &Scheduler{log: log, cron: c}, nil
}

func (s *Scheduler) Start() {
	s.log.Info("Scheduler started", "entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

type cronLogger struct{ log *logger.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
