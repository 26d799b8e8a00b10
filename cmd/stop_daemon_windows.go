//go:build windows

package cmd

import (
	"fmt"
	"os"
	"time"
)

const stopTimeout = 15 * time.Second

// killDaemon interrupts the daemon and terminates it if it has not exited
// within stopTimeout. Interrupts cannot be delivered to every process on
// Windows, in which case it is terminated right away.
func killDaemon(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("process not found: %w", err)
	}
	if err = process.Signal(os.Interrupt); err != nil {
		if err = process.Kill(); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}
		return nil
	}
	exited := make(chan struct{})
	go func() {
		_, _ = process.Wait()
		close(exited)
	}()
	select {
	case <-exited:
		return nil
	case <-time.After(stopTimeout):
		fmt.Println("Graceful shutdown timeout, forcing kill...")
		if err = process.Kill(); err != nil {
			return fmt.Errorf("failed to kill daemon: %w", err)
		}
		return nil
	}
}
