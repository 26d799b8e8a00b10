package shotlib

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
)

// ScaledWidth returns round(width*scalePercent/100), never less than 1.
func ScaledWidth(width, scalePercent int) int {
	w := int(math.Round(float64(width) * float64(scalePercent) / 100))
	if w < 1 {
		return 1
	}
	return w
}

// EncodeJPEG encodes img at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImageResizer decodes, scales and re-encodes images. The zero value uses
// Catmull-Rom interpolation.
type ImageResizer struct {
	Interpolator draw.Interpolator
}

var _ Resizer = ImageResizer{}

// Resize keeps the aspect ratio and derives the height from the rounded
// width.
func (r ImageResizer) Resize(data []byte, scalePercent, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}
	w := ScaledWidth(b.Dx(), scalePercent)
	h := int(math.Round(float64(b.Dy()) * float64(w) / float64(b.Dx())))
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	interp := r.Interpolator
	if interp == nil {
		interp = draw.CatmullRom
	}
	interp.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	out, err := EncodeJPEG(dst, quality)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out, nil
}
