package httpapi

import (
	"database/sql"
	"sync/atomic"

	"leadminer-engine/internal/config"
	"leadminer-engine/internal/events"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal     *atomic.Value // stores config.Config
	PollStatus *atomic.Value // stores poll.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Poll entrypoint (inject for testability)
	RunCycle func(db *sql.DB, cfgVal, statusVal *atomic.Value, hub *events.Hub) (added int, err error)
}
