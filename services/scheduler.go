package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRefreshScheduler re-runs the full ranking recompute on an
// interval. A swallowed recompute failure after a user action leaves a
// pool stale; this pass is what makes that staleness self-healing.
func (o *RankingOrchestrator) StartRefreshScheduler(every time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if err := o.RecalculateAll(); err != nil {
				log.Printf("[Scheduler] ranking refresh failed: %v", err)
			}
		}),
	)
}
