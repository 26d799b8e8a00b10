//go:build !windows && !(darwin && cgo)

package capture

import (
	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

const nativeBackend = BackendX11

func newNative(l logger.Logger) (shotlib.Capturer, error) {
	return NewX11(l), nil
}
