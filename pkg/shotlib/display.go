package shotlib

import (
	"context"
	"image"
)

// Display is one attached screen as reported by a Capturer. Index is the
// position in the enumeration of the current cycle and is not stable
// across cycles.
type Display struct {
	Index  int             `json:"index"`
	ID     string          `json:"id"`
	Name   string          `json:"name,omitempty"`
	Bounds image.Rectangle `json:"bounds"`
}

// Capturer is the platform screen-capture capability.
type Capturer interface {
	// Displays enumerates the attached displays in a stable order.
	Displays(ctx context.Context) ([]Display, error)
	// Capture returns a JPEG of d encoded at quality (1-100).
	Capture(ctx context.Context, d Display, quality int) ([]byte, error)
}

// Resizer downscales encoded images.
type Resizer interface {
	Resize(data []byte, scalePercent, quality int) ([]byte, error)
}
