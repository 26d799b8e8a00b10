// Package daemon supervises the long-running parts of the autoshot daemon:
// the IPC server, lock watchers and the settings file watcher. It owns their
// shared context and performs a bounded graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")

	// ErrNoTasks is returned when Start() is called without anything to run.
	ErrNoTasks = errors.New("daemon has no tasks")
)

// DefaultShutdownTimeout bounds ShutdownFunc when Config leaves it unset.
const DefaultShutdownTimeout = 10 * time.Second

// Task is a named unit of work that runs until its context is cancelled.
// A task returning nil after cancellation is a clean stop.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
	// Optional tasks may fail without bringing the daemon down.
	Optional bool
}

type Config struct {
	// ShutdownTimeout is the maximum time to wait for ShutdownFunc.
	// A negative value means no timeout.
	ShutdownTimeout time.Duration
}

type Dependencies struct {
	Tasks []Task

	// ShutdownFunc runs once the tasks have returned, e.g. to stop the
	// scheduler and close the history store.
	ShutdownFunc func() error

	// OnTaskError is told about every task failure, optional or not.
	OnTaskError func(name string, err error)
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config  *Config
	deps    *Dependencies
	running bool
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a runner. Nil arguments are replaced by defaults.
func New(config *Config, deps *Dependencies) *Runner {
	if config == nil {
		config = &Config{}
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}
	if deps == nil {
		deps = &Dependencies{}
	}
	return &Runner{
		config: config,
		deps:   deps,
	}
}

func (r *Runner) Config() *Config {
	return r.config
}

// Start runs every task and blocks until ctx is cancelled, Shutdown is
// called or a required task fails. The first required task error is
// returned; a clean stop returns nil.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	if len(r.deps.Tasks) == 0 {
		r.mu.Unlock()
		return ErrNoTasks
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.running = true
	done := r.done
	r.mu.Unlock()

	defer close(done)

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range r.deps.Tasks {
		g.Go(func() error {
			err := task.Run(gctx)
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			if r.deps.OnTaskError != nil {
				r.deps.OnTaskError(task.Name, err)
			}
			if task.Optional {
				return nil
			}
			return fmt.Errorf("%s: %w", task.Name, err)
		})
	}
	// a task that returns early must not end the daemon unless it failed
	<-gctx.Done()
	err := g.Wait()

	r.mu.Lock()
	r.running = false
	r.cancel()
	r.mu.Unlock()
	if shutdownErr := r.runShutdownFunc(); err == nil {
		err = shutdownErr
	}
	return err
}

// Shutdown cancels the tasks and waits for Start to finish, including the
// shutdown function.
func (r *Runner) Shutdown() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	r.cancel()
	done := r.done
	r.mu.Unlock()
	<-done
	return nil
}

func (r *Runner) runShutdownFunc() error {
	if r.deps.ShutdownFunc == nil {
		return nil
	}
	if r.config.ShutdownTimeout < 0 {
		return r.deps.ShutdownFunc()
	}
	return executeWithTimeout(r.deps.ShutdownFunc, r.config.ShutdownTimeout)
}

// executeWithTimeout runs fn and gives up waiting after timeout.
func executeWithTimeout(fn func() error, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
