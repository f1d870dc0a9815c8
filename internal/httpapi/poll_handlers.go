package httpapi

import (
	"database/sql"
	"net/http"
	"sync/atomic"

	"leadminer-engine/internal/events"
	"leadminer-engine/internal/poll"
)

type PollHandler struct {
	DB         *sql.DB
	CfgVal     *atomic.Value // config.Config
	PollStatus *atomic.Value // poll.Status
	Hub        *events.Hub
	RunCycle   func(db *sql.DB, cfgVal, statusVal *atomic.Value, hub *events.Hub) (added int, err error)
}

func (h PollHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, poll.LoadStatus(h.PollStatus))
}

// Run triggers a discovery cycle out of band of the schedule. The status
// check here only shapes the response; the cycle itself holds the atomic
// gate that collapses concurrent triggers.
func (h PollHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := poll.LoadStatus(h.PollStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	go func() {
		_, _ = h.RunCycle(h.DB, h.CfgVal, h.PollStatus, h.Hub)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
