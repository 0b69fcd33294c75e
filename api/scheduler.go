/*
scheduler.go - Nightly caseload recalculation scheduler

PURPOSE:
  Sentence dates move in the records system without anyone telling
  this service. The scheduler periodically re-runs the date update
  over every live licence so persisted dates and dependent conditions
  track the feed even when no one is watching a case.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Delegates the whole sweep to Service.RecalculateAll, which treats
    per-licence failures as countable, never fatal
  - First sweep runs immediately on Start so a restarted server
    catches up without waiting a full interval

CONFIGURATION:
  - CheckInterval: How often to sweep (default: 24 hours)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRecalcScheduler(service)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TriggerRecalculation endpoint (manual sweep)
  - licence/service.go: RecalculateAll
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/licence-engine/licence"
)

// RecalcScheduler re-runs the sentence date update on a timer.
type RecalcScheduler struct {
	Service       *licence.Service
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRecalcScheduler creates a new scheduler over the service.
func NewRecalcScheduler(service *licence.Service) *RecalcScheduler {
	return &RecalcScheduler{
		Service:       service,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *RecalcScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	log.Printf("[Scheduler] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler.
func (rs *RecalcScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (rs *RecalcScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.sweep()

	for {
		select {
		case <-rs.ticker.C:
			rs.sweep()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RecalcScheduler) sweep() {
	ctx := context.Background()

	log.Printf("[Scheduler] Starting caseload sweep at %v", time.Now())

	summary, err := rs.Service.RecalculateAll(ctx)
	if err != nil {
		log.Printf("[Scheduler] Sweep aborted: %v", err)
		return
	}

	log.Printf("[Scheduler] Completed: %d processed, %d material, %d deactivated, %d failed",
		summary.Processed, summary.Material, summary.Deactivated, summary.Failed)
}

// RunNow triggers an immediate sweep (for testing/admin).
func (rs *RecalcScheduler) RunNow() {
	rs.sweep()
}

// GetNextRunTime returns when the next scheduled sweep will occur.
func (rs *RecalcScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(rs.CheckInterval)
}
