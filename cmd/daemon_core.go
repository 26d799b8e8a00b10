package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/internal/api"
	daemonpkg "github.com/autoshot/autoshot/internal/daemon"
	"github.com/autoshot/autoshot/internal/scheduler"
	"github.com/autoshot/autoshot/internal/server"
	"github.com/autoshot/autoshot/pkg/capture"
	"github.com/autoshot/autoshot/pkg/history"
	"github.com/autoshot/autoshot/pkg/lockwatch"
	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/secret"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

const (
	historyFileName    = "history.db"
	historyPruneEvery  = 24 * time.Hour
	daemonShutdownWait = 10 * time.Second
)

// DaemonComponents holds everything the daemon runs, so console mode and
// Windows service mode share one setup and one teardown.
type DaemonComponents struct {
	Scheduler  *scheduler.Scheduler
	Store      *history.Store
	Api        *api.Api
	Server     *server.Server
	RPC        *server.RPCServer
	LockSource lockwatch.Source

	opts    daemonOptions
	backend string
	log     logger.Logger
	cancel  context.CancelFunc
}

// newCapturer is swapped out by tests.
var newCapturer = capture.New

// initDaemonComponents builds the daemon. Anything opened before a failure
// is closed again.
var initDaemonComponents = func(l logger.Logger, opts daemonOptions) (*DaemonComponents, error) {
	stdLog := logger.ToStdLogger(l)
	cfgDir, err := common.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	capturer, err := newCapturer(opts.Backend, l)
	if err != nil {
		return nil, fmt.Errorf("capture backend: %w", err)
	}
	backend := opts.Backend
	if backend == "" || backend == capture.BackendAuto {
		backend = capture.Default()
	}
	orch, err := shotlib.NewOrchestrator(&shotlib.OrchestratorOpts{
		Capturer: capturer,
		Logger:   l,
	})
	if err != nil {
		return nil, err
	}

	lockSrc, err := lockwatch.New(opts.LockSource, l)
	if err != nil {
		return nil, err
	}

	store, err := history.Open(filepath.Join(cfgDir, historyFileName))
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	c := &DaemonComponents{
		Store:      store,
		LockSource: lockSrc,
		opts:       opts,
		backend:    backend,
		log:        l,
	}
	c.prune()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.Scheduler, err = scheduler.New(ctx, &scheduler.Options{
		Runner: orch,
		Fs:     orch.Fs(),
		Logger: l,
		OnCycle: func(res shotlib.CycleResult) {
			c.Api.OnCycle(res)
		},
	})
	if err != nil {
		cancel()
		store.Close()
		return nil, err
	}

	c.Api, err = api.NewApi(stdLog, &api.Opts{
		Scheduler:  c.Scheduler,
		Store:      store,
		Backend:    backend,
		LockSource: lockSrc.Name(),
		Version:    currentBuildArgs.Version,
		Commit:     currentBuildArgs.Commit,
		BuildType:  currentBuildArgs.BuildType,
	})
	if err != nil {
		cancel()
		store.Close()
		return nil, err
	}

	var web *server.WebServer
	if opts.RPC {
		token, err := secret.Resolve(os.Getenv(common.RPCSecretEnv), cfgDir)
		if err != nil {
			cancel()
			store.Close()
			return nil, fmt.Errorf("rpc secret: %w", err)
		}
		notifier := server.NewRPCNotifier(stdLog)
		c.RPC = server.NewRPCServer(&server.RPCConfig{
			Secret:    token,
			ListenAll: opts.RPCListenAll,
			Version:   currentBuildArgs.Version,
			Commit:    currentBuildArgs.Commit,
			BuildType: currentBuildArgs.BuildType,
		}, c.Api, notifier)
		c.Api.SetNotifier(notifier)
		web = server.NewWebServer(stdLog, c.RPC, opts.RPCPort, opts.RPCListenAll)
		l.Info("JSON-RPC enabled on %s", web.Addr())
	}

	c.Server = server.NewServer(stdLog, nil, opts.Port, web)
	c.Api.RegisterHandlers(c.Server)

	if err = c.applyStartupSettings(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// applyStartupSettings starts capturing from the watched settings file or,
// with --resume, from the last used settings.
func (c *DaemonComponents) applyStartupSettings() error {
	if c.opts.SettingsFile != "" {
		cfg, err := loadSettingsFile(c.opts.SettingsFile)
		if err != nil {
			return fmt.Errorf("settings file: %w", err)
		}
		if _, err = c.Api.Start(&common.StartParams{Configuration: cfg}); err != nil {
			return err
		}
		c.log.Info("Capturing with settings from %s", c.opts.SettingsFile)
		return nil
	}
	if !c.opts.Resume {
		return nil
	}
	ok, err := c.Api.Resume()
	switch {
	case err != nil:
		c.log.Warning("Could not resume last settings: %v", err)
	case !ok:
		c.log.Info("Nothing to resume")
	default:
		c.log.Info("Resumed last used settings")
	}
	return nil
}

// Tasks lists what the daemon runs under its runner.
func (c *DaemonComponents) Tasks() []daemonpkg.Task {
	tasks := []daemonpkg.Task{
		{Name: "server", Run: c.Server.Start},
		{Name: "lock-watch", Run: c.watchLock, Optional: true},
		{Name: "history-prune", Run: c.pruneLoop, Optional: true},
	}
	if c.opts.SettingsFile != "" {
		tasks = append(tasks, daemonpkg.Task{
			Name: "settings-watch",
			Run: func(ctx context.Context) error {
				return watchSettings(ctx, c.opts.SettingsFile, c.log, func(cfg shotlib.Configuration) error {
					_, err := c.Api.Update(cfg)
					return err
				})
			},
			Optional: true,
		})
	}
	return tasks
}

// Runner wraps Tasks and Close in a daemon runner.
func (c *DaemonComponents) Runner() *daemonpkg.Runner {
	return daemonpkg.New(&daemonpkg.Config{ShutdownTimeout: daemonShutdownWait}, &daemonpkg.Dependencies{
		Tasks:        c.Tasks(),
		ShutdownFunc: c.Close,
		OnTaskError: func(name string, err error) {
			c.log.Error("%s: %v", name, err)
		},
	})
}

func (c *DaemonComponents) watchLock(ctx context.Context) error {
	c.log.Info("Watching session lock state via %s", c.LockSource.Name())
	return c.LockSource.Watch(ctx, func(locked bool) {
		if c.Scheduler.Locked() == locked {
			return
		}
		c.log.Info("Session locked: %v", locked)
		c.Scheduler.SetLocked(locked)
	})
}

func (c *DaemonComponents) pruneLoop(ctx context.Context) error {
	t := time.NewTicker(historyPruneEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			c.prune()
		}
	}
}

func (c *DaemonComponents) prune() {
	if c.opts.HistoryDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -c.opts.HistoryDays)
	n, err := c.Store.Prune(cutoff)
	if err != nil {
		c.log.Warning("Pruning history failed: %v", err)
		return
	}
	if n > 0 {
		c.log.Info("Pruned %d history entries older than %s", n, cutoff.Format("2006-01-02"))
	}
}

// Close stops capturing and releases everything in reverse order of
// setup. Errors are joined.
func (c *DaemonComponents) Close() error {
	var errs []error
	if c.Api != nil {
		errs = append(errs, c.Api.Close())
	}
	if c.cancel != nil {
		c.cancel()
	}
	if c.Server != nil {
		errs = append(errs, c.Server.Shutdown())
	}
	if c.RPC != nil {
		c.RPC.Close()
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	return errors.Join(errs...)
}
