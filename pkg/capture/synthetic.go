package capture

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"

	"github.com/autoshot/autoshot/pkg/shotlib"
)

// Synthetic renders gradient frames for a fixed set of virtual displays
// laid out left to right. Each capture shifts the palette so successive
// frames differ.
type Synthetic struct {
	Count  int
	Width  int
	Height int

	frame atomic.Uint32
}

func NewSynthetic(count, width, height int) *Synthetic {
	return &Synthetic{Count: count, Width: width, Height: height}
}

func (s *Synthetic) Displays(ctx context.Context) ([]shotlib.Display, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds := make([]shotlib.Display, s.Count)
	for i := range ds {
		x := i * s.Width
		ds[i] = shotlib.Display{
			Index:  i,
			ID:     fmt.Sprintf("synthetic-%d", i),
			Name:   fmt.Sprintf("Synthetic %d", i+1),
			Bounds: image.Rect(x, 0, x+s.Width, s.Height),
		}
	}
	return ds, nil
}

func (s *Synthetic) Capture(ctx context.Context, d shotlib.Display, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := d.Bounds.Dx(), d.Bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("display %s has no area", d.ID)
	}
	shift := uint8(s.frame.Add(1)*7 + uint32(d.Index)*60)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: shift,
				G: uint8(x * 255 / w),
				B: uint8(y * 255 / h),
				A: 255,
			})
		}
	}
	return shotlib.EncodeJPEG(img, quality)
}

var _ shotlib.Capturer = (*Synthetic)(nil)
