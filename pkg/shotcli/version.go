package shotcli

import (
	"fmt"
	"io"
	"os"

	"github.com/autoshot/autoshot/common"
)

// CheckVersionMismatch warns on stderr when the daemon runs a different
// version than the CLI. It never fails the command. Set
// AUTOSHOT_SUPPRESS_VERSION_CHECK to silence it.
func (c *Client) CheckVersionMismatch(expectedVersion string) {
	c.checkVersionMismatch(os.Stderr, expectedVersion)
}

func (c *Client) checkVersionMismatch(w io.Writer, expectedVersion string) {
	if expectedVersion == "" || os.Getenv(common.SuppressVersionCheckEnv) != "" {
		return
	}
	daemonVersion, err := c.GetDaemonVersion()
	if err != nil {
		fmt.Fprintf(w, "Warning: could not verify daemon version: %v\n", err)
		return
	}
	if daemonVersion.Version != expectedVersion {
		fmt.Fprintf(w, "Warning: CLI version (%s) differs from daemon version (%s)\n",
			expectedVersion, daemonVersion.Version)
		fmt.Fprintf(w, "Run 'autoshot stop-daemon' to restart the daemon with the new version.\n")
	}
}
