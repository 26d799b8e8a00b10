package shotlib

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrEnumeration   = errors.New("display enumeration failed")
	ErrCapture       = errors.New("capture failed")
	ErrResize        = errors.New("resize failed")
	ErrIO            = errors.New("write failed")

	ErrNoCapturer = errors.New("orchestrator requires a capturer")
)

// CycleError ties a failure inside a capture cycle to its kind and, when it
// is display-specific, to the zero-based display index. Display is -1 for
// cycle-wide failures such as enumeration.
type CycleError struct {
	Kind    error
	Display int
	Err     error
}

func (e *CycleError) Error() string {
	if e.Display < 0 {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("display %d: %v: %v", e.Display+1, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *CycleError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// KindName returns the short name used in results and logs for a sentinel
// kind.
func KindName(kind error) string {
	switch {
	case errors.Is(kind, ErrConfiguration):
		return "configuration"
	case errors.Is(kind, ErrEnumeration):
		return "enumeration"
	case errors.Is(kind, ErrCapture):
		return "capture"
	case errors.Is(kind, ErrResize):
		return "resize"
	case errors.Is(kind, ErrIO):
		return "io"
	default:
		return "unknown"
	}
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...)
}
