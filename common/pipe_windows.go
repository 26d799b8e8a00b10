//go:build windows

package common

import (
	"os"
	"strings"
)

const (
	pipePrefix = `\\.\pipe\`
	// DefaultPipeName names the daemon's pipe when AUTOSHOT_PIPE_NAME is unset.
	DefaultPipeName = "autoshot"
)

// PipePath returns the named pipe the daemon listens on. A value of
// AUTOSHOT_PIPE_NAME that already carries the \\.\pipe\ prefix is used as is.
func PipePath() string {
	name := os.Getenv(PipeNameEnv)
	switch {
	case name == "":
		return pipePrefix + DefaultPipeName
	case strings.HasPrefix(name, pipePrefix):
		return name
	default:
		return pipePrefix + name
	}
}
