package common

import (
	"time"

	"github.com/autoshot/autoshot/pkg/history"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

// StartParams starts capturing. When Resume is set and Configuration is
// empty the daemon falls back to the last accepted configuration.
type StartParams struct {
	shotlib.Configuration
	Resume bool `json:"resume,omitempty"`
}

// StartResponse carries the configuration the daemon accepted and the
// result of the immediate cycle. Cycle is nil for an update while idle.
type StartResponse struct {
	Config shotlib.Configuration `json:"config"`
	Cycle  *shotlib.CycleResult  `json:"cycle,omitempty"`
}

type StopResponse struct {
	WasRunning bool `json:"was_running"`
}

type StatusResponse struct {
	State      string                 `json:"state"`
	Config     *shotlib.Configuration `json:"config,omitempty"`
	Locked     bool                   `json:"locked"`
	Busy       bool                   `json:"busy"`
	NextTick   *time.Time             `json:"next_tick,omitempty"`
	LastCycle  *shotlib.CycleResult   `json:"last_cycle,omitempty"`
	Cycles     int                    `json:"cycles"`
	Skipped    int                    `json:"skipped"`
	Captured   int                    `json:"captured"`
	Failures   int                    `json:"failures"`
	Backend    string                 `json:"backend"`
	LockSource string                 `json:"lock_source"`
	Watchers   int                    `json:"watchers"`
}

type HistoryParams struct {
	Limit int `json:"limit,omitempty"`
}

type HistoryResponse struct {
	Cycles []shotlib.CycleResult `json:"cycles"`
	Totals history.Totals        `json:"totals"`
}

type LockParams struct {
	Locked bool `json:"locked"`
}

type LockResponse struct {
	Locked bool `json:"locked"`
}

type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"build_type,omitempty"`
}
