package jobs

import (
	"context"
	"fmt"
	"time"

	"auction-house/internal/metrics"
	"auction-house/utils"

	"github.com/robfig/cron/v3"
)

const (
	jobPurgeSessions = "purge_sessions"
	jobPruneLimiters = "prune_rate_limiters"

	// DefaultLimiterIdle is how long a client's rate limiter survives without requests
	DefaultLimiterIdle = 30 * time.Minute
	runTimeout         = time.Minute
)

// SessionPurger deletes expired sessions
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// LimiterPruner forgets idle rate limiter buckets
type LimiterPruner interface {
	Prune(maxIdle time.Duration) int
}

// Janitor runs periodic housekeeping on a cron schedule
type Janitor struct {
	cron        *cron.Cron
	sessions    SessionPurger
	limiters    LimiterPruner
	limiterIdle time.Duration
}

// NewJanitor schedules housekeeping. limiters may be nil.
func NewJanitor(schedule string, sessions SessionPurger, limiters LimiterPruner) (*Janitor, error) {
	j := &Janitor{
		cron:        cron.New(),
		sessions:    sessions,
		limiters:    limiters,
		limiterIdle: DefaultLimiterIdle,
	}

	if _, err := j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		j.RunOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("jobs: invalid schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins running scheduled jobs in the background
func (j *Janitor) Start() {
	j.cron.Start()
	utils.Info("Janitor: started", map[string]any{"jobs": len(j.cron.Entries())})
}

// Stop halts scheduling and waits for a running job to finish or ctx to end
func (j *Janitor) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		utils.Warn("Janitor: stop timed out", map[string]any{"error": ctx.Err().Error()})
	}
}

// RunOnce performs every housekeeping job immediately
func (j *Janitor) RunOnce(ctx context.Context) {
	if j.sessions != nil {
		start := time.Now()
		removed, err := j.sessions.PurgeExpiredSessions(ctx)
		metrics.RecordJobRun(jobPurgeSessions, time.Since(start), err == nil)
		if err != nil {
			utils.Error("Janitor: failed to purge sessions", map[string]any{"error": err.Error()})
		} else if removed > 0 {
			utils.Info("Janitor: purged expired sessions", map[string]any{"removed": removed})
		}
	}

	if j.limiters != nil {
		start := time.Now()
		removed := j.limiters.Prune(j.limiterIdle)
		metrics.RecordJobRun(jobPruneLimiters, time.Since(start), true)
		if removed > 0 {
			utils.Debug("Janitor: pruned idle rate limiters", map[string]any{"removed": removed})
		}
	}
}
