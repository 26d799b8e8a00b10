// Package api implements the daemon's request handlers on top of the
// capture scheduler. The same Api value serves the framed socket protocol
// and, through server.Controller, the JSON-RPC endpoint.
package api

import (
	"errors"
	"fmt"
	"log"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/internal/scheduler"
	"github.com/autoshot/autoshot/internal/server"
	"github.com/autoshot/autoshot/pkg/history"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

// DefaultHistoryLimit is used when a history request does not set a limit.
const DefaultHistoryLimit = 20

// ErrNoSavedConfiguration is returned when a resume is requested before
// any configuration was ever accepted.
var ErrNoSavedConfiguration = fmt.Errorf("%w: no saved configuration to resume", shotlib.ErrConfiguration)

type Opts struct {
	Scheduler *scheduler.Scheduler
	// Store is optional; without it history is unavailable and settings
	// are not remembered.
	Store      *history.Store
	Backend    string
	LockSource string
	Version    string
	Commit     string
	BuildType  string
}

type Api struct {
	log      *log.Logger
	sched    *scheduler.Scheduler
	store    *history.Store
	pool     *server.Pool
	notifier *server.RPCNotifier

	backend    string
	lockSource string
	version    common.VersionResponse
}

var _ server.Controller = (*Api)(nil)

func NewApi(l *log.Logger, opts *Opts) (*Api, error) {
	if opts == nil || opts.Scheduler == nil {
		return nil, errors.New("api requires a scheduler")
	}
	return &Api{
		log:        l,
		sched:      opts.Scheduler,
		store:      opts.Store,
		backend:    opts.Backend,
		lockSource: opts.LockSource,
		version: common.VersionResponse{
			Version:   opts.Version,
			Commit:    opts.Commit,
			BuildType: opts.BuildType,
		},
	}, nil
}

// RegisterHandlers wires the framed protocol methods into srv and adopts
// its watcher pool for cycle broadcasts.
func (s *Api) RegisterHandlers(srv *server.Server) {
	s.pool = srv.Pool()
	srv.RegisterHandler(common.UPDATE_START, s.startHandler)
	srv.RegisterHandler(common.UPDATE_UPDATE, s.updateHandler)
	srv.RegisterHandler(common.UPDATE_STOP, s.stopHandler)
	srv.RegisterHandler(common.UPDATE_STATUS, s.statusHandler)
	srv.RegisterHandler(common.UPDATE_HISTORY, s.historyHandler)
	srv.RegisterHandler(common.UPDATE_LOCK, s.lockHandler)
	srv.RegisterHandler(common.UPDATE_ATTACH, s.attachHandler)
	srv.RegisterHandler(common.UPDATE_DETACH, s.detachHandler)
	srv.RegisterHandler(common.UPDATE_VERSION, s.versionHandler)
}

// SetNotifier routes cycle events to JSON-RPC WebSocket clients as well.
func (s *Api) SetNotifier(n *server.RPCNotifier) {
	s.notifier = n
}

// OnCycle records res and pushes it to every watcher. It is installed as
// the scheduler's cycle callback.
func (s *Api) OnCycle(res shotlib.CycleResult) {
	if s.store != nil {
		if err := s.store.Record(res); err != nil {
			s.log.Println("Error recording cycle:", err)
		}
	}
	if s.pool != nil {
		s.pool.Broadcast(server.MakeResult(common.UPDATE_CYCLE, &res))
	}
	if s.notifier != nil {
		s.notifier.NotifyCycle(res)
	}
}

// Close stops the schedule and waits for in-flight cycles.
func (s *Api) Close() error {
	s.sched.Stop()
	s.sched.Wait()
	return nil
}
