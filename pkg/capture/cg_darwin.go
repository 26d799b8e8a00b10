//go:build darwin && cgo

package capture

/*
#cgo CFLAGS: -Wno-deprecated-declarations
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ImageIO

#include <CoreGraphics/CoreGraphics.h>
#include <ImageIO/ImageIO.h>

static CFDataRef autoshot_capture(CGDirectDisplayID id, double quality, int *err) {
	CGImageRef image = CGDisplayCreateImage(id);
	if (!image) {
		*err = 1;
		return NULL;
	}
	CFMutableDataRef data = CFDataCreateMutable(NULL, 0);
	if (!data) {
		*err = 2;
		CGImageRelease(image);
		return NULL;
	}
	CGImageDestinationRef dest = CGImageDestinationCreateWithData(data, CFSTR("public.jpeg"), 1, NULL);
	if (!dest) {
		*err = 3;
		CFRelease(data);
		CGImageRelease(image);
		return NULL;
	}
	CFNumberRef q = CFNumberCreate(NULL, kCFNumberDoubleType, &quality);
	const void *keys[] = { kCGImageDestinationLossyCompressionQuality };
	const void *vals[] = { q };
	CFDictionaryRef props = CFDictionaryCreate(NULL, keys, vals, 1,
		&kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
	CGImageDestinationAddImage(dest, image, props);
	bool ok = CGImageDestinationFinalize(dest);
	CFRelease(props);
	CFRelease(q);
	CFRelease(dest);
	CGImageRelease(image);
	if (!ok) {
		*err = 4;
		CFRelease(data);
		return NULL;
	}
	return data;
}
*/
import "C"

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"unsafe"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

const nativeBackend = BackendDarwin

const maxDisplays = 16

var captureErrors = map[C.int]string{
	1: "CGDisplayCreateImage returned nil (screen recording permission missing?)",
	2: "failed to allocate image buffer",
	3: "failed to create image destination",
	4: "failed to finalize image",
}

// CoreGraphics captures each active display as a JPEG encoded by ImageIO.
type CoreGraphics struct {
	log logger.Logger
}

func newNative(l logger.Logger) (shotlib.Capturer, error) {
	return &CoreGraphics{log: l}, nil
}

func (c *CoreGraphics) Displays(ctx context.Context) ([]shotlib.Display, error) {
	var ids [maxDisplays]C.CGDirectDisplayID
	var n C.uint32_t
	if rc := C.CGGetActiveDisplayList(maxDisplays, &ids[0], &n); rc != 0 {
		return nil, fmt.Errorf("CGGetActiveDisplayList failed: %d", int(rc))
	}
	ds := make([]shotlib.Display, 0, int(n))
	for i := 0; i < int(n); i++ {
		b := C.CGDisplayBounds(ids[i])
		x, y := int(b.origin.x), int(b.origin.y)
		ds = append(ds, shotlib.Display{
			Index:  i,
			ID:     strconv.FormatUint(uint64(ids[i]), 10),
			Bounds: image.Rect(x, y, x+int(b.size.width), y+int(b.size.height)),
		})
	}
	return ds, nil
}

func (c *CoreGraphics) Capture(ctx context.Context, d shotlib.Display, quality int) ([]byte, error) {
	id, err := strconv.ParseUint(d.ID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("bad display id %q: %w", d.ID, err)
	}
	var cerr C.int
	data := C.autoshot_capture(C.CGDirectDisplayID(id), C.double(float64(quality)/100), &cerr)
	if data == 0 {
		return nil, fmt.Errorf("display %s: %s", d.ID, captureErrors[cerr])
	}
	defer C.CFRelease(C.CFTypeRef(data))
	return C.GoBytes(unsafe.Pointer(C.CFDataGetBytePtr(data)), C.int(C.CFDataGetLength(data))), nil
}

var _ shotlib.Capturer = (*CoreGraphics)(nil)
