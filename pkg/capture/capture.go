// Package capture implements shotlib.Capturer for each supported platform.
//
// Backends:
//
//	windows    GDI BitBlt of every monitor
//	darwin     CoreGraphics display images (requires cgo)
//	x11        xrandr for enumeration, ImageMagick import for pixels
//	synthetic  generated frames for headless machines and tests
package capture

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

const (
	BackendAuto      = "auto"
	BackendSynthetic = "synthetic"
	BackendX11       = "x11"
	BackendWindows   = "windows"
	BackendDarwin    = "darwin"
)

var (
	ErrUnknownBackend = errors.New("unknown capture backend")
	ErrUnsupported    = errors.New("capture backend not available on this platform")
)

// New returns the backend called name. An empty name or "auto" selects the
// platform default.
func New(name string, l logger.Logger) (shotlib.Capturer, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == BackendAuto || name == nativeBackend {
		return newNative(l)
	}
	switch name {
	case BackendSynthetic:
		return NewSynthetic(2, 1280, 720), nil
	case BackendX11:
		return NewX11(l), nil
	case BackendWindows, BackendDarwin:
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, name, runtime.GOOS)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Default is the backend "auto" resolves to on this build.
func Default() string {
	return nativeBackend
}

// Backends lists the names New accepts on this build.
func Backends() []string {
	names := []string{BackendAuto, nativeBackend, BackendSynthetic}
	if nativeBackend != BackendX11 {
		names = append(names, BackendX11)
	}
	return names
}
