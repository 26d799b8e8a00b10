//go:build windows

// Package service runs the autoshot daemon under the Windows Service
// Control Manager.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/autoshot/autoshot/internal/daemon"
	"github.com/autoshot/autoshot/pkg/logger"
	"golang.org/x/sys/windows/svc"
)

// Name is the service and event source name.
const Name = "autoshot"

const (
	acceptedCommands = svc.AcceptStop | svc.AcceptShutdown
	startGrace       = 50 * time.Millisecond
)

// Runner is the part of *daemon.Runner the handler drives.
type Runner interface {
	Start(ctx context.Context) error
	Shutdown() error
	IsRunning() bool
}

// Handler implements svc.Handler on top of a Runner.
type Handler struct {
	runner Runner
	log    logger.Logger
}

func NewHandler(runner Runner, l logger.Logger) *Handler {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Handler{runner: runner, log: l}
}

// Execute reports StartPending, Running, StopPending and Stopped in that
// order. Service start arguments are ignored; the daemon is configured by
// its environment and saved settings.
func (h *Handler) Execute(_ []string, requests <-chan svc.ChangeRequest, status chan<- svc.Status) (bool, uint32) {
	status <- svc.Status{State: svc.StartPending}
	h.log.Info("autoshot service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startErr := make(chan error, 1)
	go func() {
		startErr <- h.runner.Start(ctx)
	}()

	select {
	case err := <-startErr:
		if err != nil {
			h.log.Error("autoshot service failed to start: %v", err)
			status <- svc.Status{State: svc.Stopped}
			return false, 1
		}
		// the runner stopped on its own without error
		status <- svc.Status{State: svc.Stopped}
		return false, 0
	case <-time.After(startGrace):
	}

	status <- svc.Status{State: svc.Running, Accepts: acceptedCommands}
	h.log.Info("autoshot service running")

	for {
		select {
		case req, ok := <-requests:
			if !ok {
				return false, 0
			}
			switch req.Cmd {
			case svc.Interrogate:
				status <- req.CurrentStatus
			case svc.Stop, svc.Shutdown:
				return h.stop(status, cancel, startErr)
			}
		case err := <-startErr:
			code := uint32(0)
			if err != nil {
				h.log.Error("autoshot daemon exited: %v", err)
				code = 1
			}
			status <- svc.Status{State: svc.Stopped}
			return false, code
		}
	}
}

func (h *Handler) stop(status chan<- svc.Status, cancel context.CancelFunc, startErr <-chan error) (bool, uint32) {
	h.log.Info("autoshot service stopping")
	status <- svc.Status{State: svc.StopPending}
	cancel()
	err := h.runner.Shutdown()
	if errors.Is(err, daemon.ErrNotRunning) {
		err = nil
	}
	if err == nil {
		err = <-startErr
	}
	status <- svc.Status{State: svc.Stopped}
	if err != nil && !errors.Is(err, context.Canceled) {
		h.log.Error("error during service shutdown: %v", err)
		return false, 1
	}
	h.log.Info("autoshot service stopped")
	return false, 0
}

func (h *Handler) AcceptedCommands() svc.Accepted {
	return acceptedCommands
}

// IsService reports whether the process was started by the SCM.
func IsService() (bool, error) {
	return svc.IsWindowsService()
}

// Run blocks serving h until the SCM stops the service.
func Run(h *Handler) error {
	return svc.Run(Name, h)
}
