//go:build !windows

package server

import (
	"os"

	"github.com/autoshot/autoshot/common"
)

// cleanupSocket removes the Unix socket file. A missing file is not an error.
func cleanupSocket() error {
	if err := os.Remove(common.SocketPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
