//go:build !windows

package shotcli

import (
	"fmt"
	"net"

	"github.com/autoshot/autoshot/common"
)

// dial connects over the Unix socket and falls back to TCP.
func dial() (net.Conn, error) {
	if forceTCP() {
		debugLog("Force TCP mode enabled, dialing %s", tcpAddress())
		return dialFunc("tcp", tcpAddress())
	}
	path := common.SocketPath()
	debugLog("Attempting connection via Unix socket at %s", path)
	conn, unixErr := dialFunc("unix", path)
	if unixErr != nil {
		debugLog("Unix socket connection failed: %v, falling back to TCP", unixErr)
		conn, err := dialFunc("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to connect: unix socket error: %v; tcp error: %w", unixErr, err)
		}
		debugLog("Successfully connected via TCP fallback to %s", tcpAddress())
		return conn, nil
	}
	debugLog("Successfully connected via Unix socket")
	return conn, nil
}

// isDaemonRunning reports whether something answers on the socket or the
// TCP fallback port.
func isDaemonRunning() bool {
	if !forceTCP() {
		conn, err := net.DialTimeout("unix", common.SocketPath(), probeTimeout)
		if err == nil {
			conn.Close()
			return true
		}
	}
	return probeTCP()
}

