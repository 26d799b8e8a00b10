//go:build !linux && !windows

package lockwatch

import "github.com/autoshot/autoshot/pkg/logger"

const nativeSource = SourceManual

func newNative(logger.Logger) Source {
	return Manual{}
}
