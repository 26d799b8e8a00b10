package shotcli

import (
	"fmt"
	"time"
)

const (
	daemonStartTimeout = 3 * time.Second
	socketPollInterval = 50 * time.Millisecond
)

// ensureDaemonFunc is swapped out by tests.
var ensureDaemonFunc = ensureDaemon

// ensureDaemon starts the daemon in the background unless one is already
// answering, then waits for it to accept connections.
func ensureDaemon() error {
	if isDaemonRunning() {
		return nil
	}
	debugLog("daemon not running, spawning it")
	if err := spawnDaemon(); err != nil {
		return err
	}
	return waitForDaemon(isDaemonRunning, daemonStartTimeout)
}

// waitForDaemon polls probe until it succeeds or timeout expires.
func waitForDaemon(probe func() bool, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if probe() {
			return nil
		}
		time.Sleep(socketPollInterval)
	}
	return fmt.Errorf("daemon failed to start within %v", timeout)
}
