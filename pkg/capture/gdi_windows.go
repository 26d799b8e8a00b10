//go:build windows

package capture

import (
	"context"
	"fmt"
	"image"
	"sync"
	"syscall"
	"unsafe"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"golang.org/x/sys/windows"
)

const nativeBackend = BackendWindows

var (
	user32                     = windows.NewLazySystemDLL("user32.dll")
	gdi32                      = windows.NewLazySystemDLL("gdi32.dll")
	procSetProcessDPIAware     = user32.NewProc("SetProcessDPIAware")
	procEnumDisplayMonitors    = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW        = user32.NewProc("GetMonitorInfoW")
	procGetDC                  = user32.NewProc("GetDC")
	procReleaseDC              = user32.NewProc("ReleaseDC")
	procCreateCompatibleDC     = gdi32.NewProc("CreateCompatibleDC")
	procCreateCompatibleBitmap = gdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject           = gdi32.NewProc("SelectObject")
	procBitBlt                 = gdi32.NewProc("BitBlt")
	procGetDIBits              = gdi32.NewProc("GetDIBits")
	procDeleteObject           = gdi32.NewProc("DeleteObject")
	procDeleteDC               = gdi32.NewProc("DeleteDC")
)

const (
	srcCopy    = 0x00CC0020
	captureBlt = 0x40000000
)

type rect struct {
	Left, Top, Right, Bottom int32
}

type monitorInfoEx struct {
	CbSize    uint32
	RcMonitor rect
	RcWork    rect
	DwFlags   uint32
	SzDevice  [32]uint16
}

type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

// Callbacks created by syscall.NewCallback are never freed, so a single
// one is shared and its results are collected under enumMu.
var (
	enumMu       sync.Mutex
	enumResult   []shotlib.Display
	enumCallback = syscall.NewCallback(func(hmon, hdc, lprc, lparam uintptr) uintptr {
		var mi monitorInfoEx
		mi.CbSize = uint32(unsafe.Sizeof(mi))
		if r, _, _ := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&mi))); r == 0 {
			return 1
		}
		rc := mi.RcMonitor
		enumResult = append(enumResult, shotlib.Display{
			Index:  len(enumResult),
			ID:     windows.UTF16ToString(mi.SzDevice[:]),
			Bounds: image.Rect(int(rc.Left), int(rc.Top), int(rc.Right), int(rc.Bottom)),
		})
		return 1
	})
	dpiOnce sync.Once
)

// GDI captures monitors with BitBlt from the screen device context.
type GDI struct {
	log logger.Logger
}

func newNative(l logger.Logger) (shotlib.Capturer, error) {
	dpiOnce.Do(func() { _, _, _ = procSetProcessDPIAware.Call() })
	return &GDI{log: l}, nil
}

func (g *GDI) Displays(ctx context.Context) ([]shotlib.Display, error) {
	enumMu.Lock()
	defer enumMu.Unlock()
	enumResult = nil
	r, _, err := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0)
	if r == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %v", err)
	}
	out := enumResult
	enumResult = nil
	return out, nil
}

func (g *GDI) Capture(ctx context.Context, d shotlib.Display, quality int) ([]byte, error) {
	img, err := grab(d.Bounds)
	if err != nil {
		return nil, err
	}
	return shotlib.EncodeJPEG(img, quality)
}

func grab(b image.Rectangle) (*image.RGBA, error) {
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty monitor bounds %v", b)
	}
	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return nil, fmt.Errorf("failed to get screen device context")
	}
	defer procReleaseDC.Call(0, hdc)

	memDC, _, _ := procCreateCompatibleDC.Call(hdc)
	if memDC == 0 {
		return nil, fmt.Errorf("failed to create compatible DC")
	}
	defer procDeleteDC.Call(memDC)

	bitmap, _, _ := procCreateCompatibleBitmap.Call(hdc, uintptr(width), uintptr(height))
	if bitmap == 0 {
		return nil, fmt.Errorf("failed to create compatible bitmap")
	}
	defer procDeleteObject.Call(bitmap)

	old, _, _ := procSelectObject.Call(memDC, bitmap)
	defer procSelectObject.Call(memDC, old)

	x, y := int32(b.Min.X), int32(b.Min.Y)
	if r, _, _ := procBitBlt.Call(memDC, 0, 0, uintptr(width), uintptr(height), hdc, uintptr(x), uintptr(y), srcCopy|captureBlt); r == 0 {
		return nil, fmt.Errorf("BitBlt failed")
	}

	bmi := bitmapInfoHeader{
		BiSize:     uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		BiWidth:    int32(width),
		BiHeight:   int32(-height),
		BiPlanes:   1,
		BiBitCount: 32,
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if r, _, _ := procGetDIBits.Call(memDC, bitmap, 0, uintptr(height),
		uintptr(unsafe.Pointer(&img.Pix[0])), uintptr(unsafe.Pointer(&bmi)), 0); r == 0 {
		return nil, fmt.Errorf("GetDIBits failed")
	}
	// BGRA to RGBA in place; GDI leaves alpha undefined.
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		img.Pix[i+3] = 255
	}
	return img, nil
}

var _ shotlib.Capturer = (*GDI)(nil)
