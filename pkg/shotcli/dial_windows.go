//go:build windows

package shotcli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
	"github.com/autoshot/autoshot/common"
)

// dialPipeFunc is swapped out by tests.
var dialPipeFunc = dialPipeImpl

func dialPipeImpl(path string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return winio.DialPipeContext(ctx, path)
}

// dial connects over the named pipe and falls back to TCP.
func dial() (net.Conn, error) {
	if forceTCP() {
		debugLog("Force TCP mode enabled, dialing %s", tcpAddress())
		return dialFunc("tcp", tcpAddress())
	}
	pipePath := common.PipePath()
	debugLog("Attempting connection via named pipe at %s", pipePath)
	conn, pipeErr := dialPipeFunc(pipePath, common.DefaultDialTimeout)
	if pipeErr != nil {
		debugLog("Named pipe connection failed: %v, falling back to TCP", pipeErr)
		conn, err := dialFunc("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to connect: named pipe error: %v; tcp error: %w", pipeErr, err)
		}
		debugLog("Successfully connected via TCP fallback to %s", tcpAddress())
		return conn, nil
	}
	debugLog("Successfully connected via named pipe")
	return conn, nil
}

func isDaemonRunning() bool {
	if !forceTCP() {
		conn, err := dialPipeFunc(common.PipePath(), probeTimeout)
		if err == nil {
			conn.Close()
			return true
		}
	}
	return probeTCP()
}
