package poll

import (
	"context"
	"database/sql"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"leadminer-engine/internal/config"
	"leadminer-engine/internal/domain"
	"leadminer-engine/internal/events"
	"leadminer-engine/internal/scheduler"
)

// Status is the last-known state of the poller, surfaced at /poll/status.
type Status struct {
	Running     bool   `json:"running"`
	RunID       string `json:"run_id,omitempty"`
	LastRunAt   string `json:"last_run_at,omitempty"`
	LastOkAt    string `json:"last_ok_at,omitempty"`
	LastError   string `json:"last_error,omitempty"`
	LastAdded   int    `json:"last_added"`
	LastSkipped int    `json:"last_skipped"`
}

func LoadStatus(v *atomic.Value) Status {
	if st, ok := v.Load().(Status); ok {
		return st
	}
	return Status{}
}

// cycleActive is the collapse gate for concurrent triggers (scheduler tick
// vs manual /poll/run). Status.Running mirrors it for the UI but is not the
// gate itself, since a load-check-store on the status value would race.
var cycleActive atomic.Bool

// RunCycle executes one poll with status bookkeeping and SSE notifications.
// At most one cycle runs at a time; a trigger that finds one active returns
// immediately without touching the status.
func RunCycle(db *sql.DB, cfgVal, statusVal *atomic.Value, hub *events.Hub) (added int, err error) {
	cfgAny := cfgVal.Load()
	if cfgAny == nil {
		return 0, nil
	}
	cfg := cfgAny.(config.Config)

	if !cycleActive.CompareAndSwap(false, true) {
		log.Printf("[poll] run already in progress, skipping")
		return 0, nil
	}
	defer cycleActive.Store(false)

	st := LoadStatus(statusVal)
	runID := uuid.NewString()
	st.Running = true
	st.RunID = runID
	st.LastRunAt = time.Now().UTC().Format(time.RFC3339)
	statusVal.Store(st)
	hub.Publish(events.MakeEvent(runID, events.TypePollStarted, 1, nil))

	added, skipped, err := PollOnce(db, cfg, func(l domain.Lead) {
		hub.Publish(events.MakeEvent(runID, events.TypeLeadNew, 1, l))
	})

	st = LoadStatus(statusVal)
	st.Running = false
	st.LastAdded = added
	st.LastSkipped = skipped
	if err != nil {
		st.LastError = err.Error()
		log.Printf("[poll] error: %v", err)
	} else {
		st.LastError = ""
		st.LastOkAt = time.Now().UTC().Format(time.RFC3339)
		log.Printf("[poll] ok added=%d skipped=%d", added, skipped)
	}
	statusVal.Store(st)
	hub.Publish(events.MakeEvent(runID, events.TypePollFinished, 1, map[string]int{
		"added":   added,
		"skipped": skipped,
	}))
	return added, err
}

// StartPoller schedules discovery cycles at the configured interval. Interval
// changes take effect on restart, not reload.
func StartPoller(ctx context.Context, db *sql.DB, cfgVal, statusVal *atomic.Value, hub *events.Hub) {
	interval := 60 * time.Minute
	if cfgAny := cfgVal.Load(); cfgAny != nil {
		cfg := cfgAny.(config.Config)
		if cfg.Polling.IntervalMinutes > 0 {
			interval = time.Duration(cfg.Polling.IntervalMinutes) * time.Minute
		}
	}

	go scheduler.Every(ctx, interval, "poll", func(ctx context.Context) error {
		_, err := RunCycle(db, cfgVal, statusVal, hub)
		return err
	})
}
