package server

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

// fakeController records calls and returns canned responses.
type fakeController struct {
	mu      sync.Mutex
	running bool
	locked  bool
	cfg     shotlib.Configuration
	calls   []string
}

func (f *fakeController) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeController) Start(p *common.StartParams) (*common.StartResponse, error) {
	f.record("start")
	if err := p.Configuration.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.running = true
	f.cfg = p.Configuration
	f.mu.Unlock()
	res := shotlib.CycleResult{ID: "c1", StartedAt: time.Now(), Displays: 1, Successes: 1}
	return &common.StartResponse{Config: p.Configuration, Cycle: &res}, nil
}

func (f *fakeController) Update(cfg shotlib.Configuration) (*common.StartResponse, error) {
	f.record("update")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg = cfg
	return &common.StartResponse{Config: cfg}, nil
}

func (f *fakeController) Stop() (*common.StopResponse, error) {
	f.record("stop")
	f.mu.Lock()
	defer f.mu.Unlock()
	was := f.running
	f.running = false
	return &common.StopResponse{WasRunning: was}, nil
}

func (f *fakeController) Status() (*common.StatusResponse, error) {
	f.record("status")
	f.mu.Lock()
	defer f.mu.Unlock()
	state := "idle"
	if f.running {
		state = "running"
	}
	return &common.StatusResponse{State: state, Locked: f.locked, Backend: "synthetic"}, nil
}

func (f *fakeController) History(p *common.HistoryParams) (*common.HistoryResponse, error) {
	f.record("history")
	if p.Limit < 0 {
		return nil, fmt.Errorf("history: %w", ErrUnavailable)
	}
	return &common.HistoryResponse{Cycles: []shotlib.CycleResult{{ID: "c1"}}}, nil
}

func (f *fakeController) SetLocked(locked bool) (*common.LockResponse, error) {
	f.record("lock")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locked = locked
	return &common.LockResponse{Locked: locked}, nil
}

const testSecret = "test-rpc-secret"

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestRPC(ctl Controller) *RPCServer {
	return NewRPCServer(&RPCConfig{
		Secret:  testSecret,
		Version: "1.0.0",
		Commit:  "abc123",
	}, ctl, NewRPCNotifier(discardLogger()))
}
