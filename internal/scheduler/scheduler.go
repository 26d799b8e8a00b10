package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/spf13/afero"
)

var ErrNoRunner = errors.New("scheduler requires a cycle runner")

// Scheduler runs capture cycles on a fixed interval. All methods are safe
// for concurrent use.
type Scheduler struct {
	ctx       context.Context
	runner    CycleRunner
	fs        afero.Fs
	log       logger.Logger
	onCycle   func(shotlib.CycleResult)
	clock     func() time.Time
	newTicker func(time.Duration) Ticker

	mu        sync.Mutex
	state     State
	cfg       shotlib.Configuration
	hasConfig bool
	ticker    Ticker
	stopCh    chan struct{}
	nextTick  time.Time

	locked atomic.Bool
	busy   atomic.Bool
	wg     sync.WaitGroup

	statsMu sync.Mutex
	last    *shotlib.CycleResult
	cycles  int
	skipped int
	shots   int
	fails   int
}

// New creates an idle Scheduler. ctx is handed to every cycle; cancelling
// it aborts in-flight captures.
func New(ctx context.Context, opts *Options) (*Scheduler, error) {
	if opts == nil || opts.Runner == nil {
		return nil, ErrNoRunner
	}
	s := &Scheduler{
		ctx:       ctx,
		runner:    opts.Runner,
		fs:        opts.Fs,
		log:       opts.Logger,
		onCycle:   opts.OnCycle,
		clock:     opts.Clock,
		newTicker: opts.NewTicker,
		state:     StateIdle,
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.log == nil {
		s.log = logger.NewNopLogger()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newTicker == nil {
		clock := s.clock
		s.newTicker = func(d time.Duration) Ticker { return newWallTicker(d, clock) }
	}
	return s, nil
}

func (s *Scheduler) accept(cfg shotlib.Configuration) (shotlib.Configuration, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := shotlib.PrepareSaveDirectory(s.fs, cfg.SaveDirectory); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Start replaces any running schedule with cfg, runs one cycle right away
// and arms the timer. An invalid configuration is rejected with an
// ErrConfiguration and leaves the scheduler untouched.
func (s *Scheduler) Start(cfg shotlib.Configuration) (shotlib.CycleResult, error) {
	cfg, err := s.accept(cfg)
	if err != nil {
		s.log.Warning("[scheduler] start refused: %v", err)
		return shotlib.CycleResult{}, err
	}
	s.mu.Lock()
	s.disarm()
	s.cfg, s.hasConfig = cfg, true
	s.arm(cfg.Interval())
	s.state = StateRunning
	s.mu.Unlock()

	s.log.Info("[scheduler] started: every %d minute(s) into %s", cfg.IntervalMinutes, cfg.SaveDirectory)
	return s.runCycle(cfg), nil
}

// Update replaces the configuration. When running, the timer is re-armed
// with the new interval and one cycle runs immediately; the returned result
// is nil when the scheduler is idle.
func (s *Scheduler) Update(cfg shotlib.Configuration) (*shotlib.CycleResult, error) {
	cfg, err := s.accept(cfg)
	if err != nil {
		s.log.Warning("[scheduler] update refused: %v", err)
		return nil, err
	}
	s.mu.Lock()
	s.cfg, s.hasConfig = cfg, true
	running := s.state == StateRunning
	if running {
		s.disarm()
		s.arm(cfg.Interval())
	}
	s.mu.Unlock()

	if !running {
		s.log.Info("[scheduler] configuration stored while idle")
		return nil, nil
	}
	s.log.Info("[scheduler] updated: every %d minute(s) into %s", cfg.IntervalMinutes, cfg.SaveDirectory)
	res := s.runCycle(cfg)
	return &res, nil
}

// Stop cancels future ticks. Calling it while idle does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return
	}
	s.disarm()
	s.state = StateIdle
	s.log.Info("[scheduler] stopped")
}

// Wait blocks until every tick-launched cycle has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) SetLocked(locked bool) {
	if s.locked.Swap(locked) != locked {
		s.log.Info("[scheduler] session locked: %v", locked)
	}
}

func (s *Scheduler) Locked() bool {
	return s.locked.Load()
}

// Config returns the last accepted configuration.
func (s *Scheduler) Config() (shotlib.Configuration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.hasConfig
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	st := Status{
		State:  s.state,
		Locked: s.locked.Load(),
		Busy:   s.busy.Load(),
	}
	if s.hasConfig {
		cfg := s.cfg
		st.Config = &cfg
	}
	if s.state == StateRunning && !s.nextTick.IsZero() {
		next := s.nextTick
		st.NextTick = &next
	}
	s.mu.Unlock()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if s.last != nil {
		last := *s.last
		st.LastCycle = &last
	}
	st.Cycles, st.Skipped, st.Captured, st.Failures = s.cycles, s.skipped, s.shots, s.fails
	return st
}

// arm must be called with s.mu held.
func (s *Scheduler) arm(interval time.Duration) {
	t := s.newTicker(interval)
	stop := make(chan struct{})
	s.ticker, s.stopCh = t, stop
	s.nextTick = s.clock().Add(interval)
	go s.loop(t, stop, interval)
}

// disarm must be called with s.mu held.
func (s *Scheduler) disarm() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stopCh)
	s.ticker, s.stopCh = nil, nil
	s.nextTick = time.Time{}
}

func (s *Scheduler) loop(t Ticker, stop chan struct{}, interval time.Duration) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			s.mu.Lock()
			if s.stopCh != stop {
				s.mu.Unlock()
				return
			}
			cfg := s.cfg
			s.nextTick = s.clock().Add(interval)
			s.wg.Add(1)
			s.mu.Unlock()
			go func() {
				defer s.wg.Done()
				s.runCycle(cfg)
			}()
		}
	}
}

func (s *Scheduler) runCycle(cfg shotlib.Configuration) (res shotlib.CycleResult) {
	now := s.clock()
	if !s.busy.CompareAndSwap(false, true) {
		s.log.Warning("[scheduler] previous cycle still running, skipping")
		res = shotlib.SkippedResult(now, shotlib.SkipBusy)
		s.report(res)
		return res
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("PANIC [cycle]: %v\n%s", r, debug.Stack())
			res = shotlib.FailedResult(now, fmt.Errorf("panic: %v", r))
		}
		s.report(res)
	}()
	defer s.busy.Store(false)
	return s.runner.RunCycle(s.ctx, cfg, now, s.locked.Load())
}

func (s *Scheduler) report(res shotlib.CycleResult) {
	s.statsMu.Lock()
	s.last = &res
	s.cycles++
	if res.Skipped {
		s.skipped++
	}
	s.shots += res.Successes
	s.fails += len(res.Failures)
	if res.Error != "" {
		s.fails++
	}
	s.statsMu.Unlock()

	if s.onCycle != nil {
		s.onCycle(res)
	}
}
