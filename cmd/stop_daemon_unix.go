//go:build !windows

package cmd

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

const (
	// covers the daemon's own bounded shutdown plus a margin
	stopTimeout  = 15 * time.Second
	pollInterval = 100 * time.Millisecond
)

// killDaemon asks the daemon to exit with SIGTERM and escalates to SIGKILL
// once stopTimeout has passed.
func killDaemon(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("process not found: %w", err)
	}
	if err = process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}
	if waitForExit(pid, stopTimeout) {
		return nil
	}
	fmt.Println("Graceful shutdown timeout, forcing kill...")
	if err = process.Signal(syscall.SIGKILL); err != nil {
		return fmt.Errorf("failed to send SIGKILL: %w", err)
	}
	if !waitForExit(pid, time.Second) {
		return fmt.Errorf("daemon (PID %d) survived SIGKILL", pid)
	}
	return nil
}

func waitForExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			return true
		}
		time.Sleep(pollInterval)
	}
	return !isProcessRunning(pid)
}
