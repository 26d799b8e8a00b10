package scheduler

import (
	"context"
	"time"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/spf13/afero"
)

// State is the lifecycle state of a Scheduler.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// CycleRunner executes one capture cycle. *shotlib.Orchestrator implements
// it.
type CycleRunner interface {
	RunCycle(ctx context.Context, cfg shotlib.Configuration, now time.Time, locked bool) shotlib.CycleResult
}

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type Options struct {
	Runner CycleRunner
	// Fs is used to check the save directory before accepting a
	// configuration. Defaults to the OS filesystem.
	Fs     afero.Fs
	Logger logger.Logger
	// OnCycle observes every cycle result, including skipped ones. It is
	// called from the goroutine that ran the cycle.
	OnCycle func(shotlib.CycleResult)
	// Clock defaults to time.Now.
	Clock func() time.Time
	// NewTicker defaults to a wall-clock ticker.
	NewTicker func(interval time.Duration) Ticker
}

// Status is a point-in-time snapshot of a Scheduler.
type Status struct {
	State     State                  `json:"state"`
	Config    *shotlib.Configuration `json:"config,omitempty"`
	Locked    bool                   `json:"locked"`
	Busy      bool                   `json:"busy"`
	NextTick  *time.Time             `json:"next_tick,omitempty"`
	LastCycle *shotlib.CycleResult   `json:"last_cycle,omitempty"`
	Cycles    int                    `json:"cycles"`
	Skipped   int                    `json:"skipped"`
	Captured  int                    `json:"captured"`
	Failures  int                    `json:"failures"`
}
