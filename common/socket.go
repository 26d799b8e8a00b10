//go:build !windows

package common

import (
	"os"
	"path/filepath"
)

// SocketPath returns the Unix socket path shared by the daemon and its
// clients. AUTOSHOT_SOCKET_PATH takes precedence over the temp dir default.
func SocketPath() string {
	if path := os.Getenv(SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), SocketName)
}
