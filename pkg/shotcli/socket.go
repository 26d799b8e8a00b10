package shotcli

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/autoshot/autoshot/common"
)

// dialFunc is swapped out by tests.
var dialFunc = func(network, address string) (net.Conn, error) {
	return net.DialTimeout(network, address, common.DefaultDialTimeout)
}

// tcpPort returns AUTOSHOT_TCP_PORT when it holds a valid port, otherwise
// common.DefaultTCPPort.
func tcpPort() int {
	if port := os.Getenv(common.TCPPortEnv); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p >= 1 && p <= 65535 {
			return p
		}
		debugLog("invalid TCP port %q, using default %d", port, common.DefaultTCPPort)
	}
	return common.DefaultTCPPort
}

func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) == "1"
}

func debugMode() bool {
	return os.Getenv(common.DebugEnv) == "1"
}

func tcpAddress() string {
	return fmt.Sprintf("%s:%d", common.TCPHost, tcpPort())
}

func debugLog(format string, args ...any) {
	if debugMode() {
		log.Printf(format, args...)
	}
}

// probeTimeout bounds the liveness check used before spawning a daemon.
const probeTimeout = 100 * time.Millisecond

func probeTCP() bool {
	conn, err := net.DialTimeout("tcp", tcpAddress(), probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
