package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

// X11 shells out to xrandr and ImageMagick's import, the same tools
// desktop screenshot utilities rely on under X11.
type X11 struct {
	log logger.Logger
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewX11(l logger.Logger) *X11 {
	return &X11{log: l, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func (x *X11) Displays(ctx context.Context) ([]shotlib.Display, error) {
	out, err := x.run(ctx, "xrandr", "--listmonitors")
	if err != nil {
		return nil, err
	}
	ds, err := parseMonitors(out)
	if err != nil {
		return nil, err
	}
	x.log.Info("x11: %d monitor(s) found", len(ds))
	return ds, nil
}

func (x *X11) Capture(ctx context.Context, d shotlib.Display, quality int) ([]byte, error) {
	b := d.Bounds
	geometry := fmt.Sprintf("%dx%d%+d%+d", b.Dx(), b.Dy(), b.Min.X, b.Min.Y)
	out, err := x.run(ctx, "import", "-silent", "-window", "root",
		"-crop", geometry, "+repage",
		"-quality", strconv.Itoa(quality), "jpeg:-")
	if err != nil {
		return nil, err
	}
	return out, nil
}

// " 0: +*eDP-1 1920/344x1080/194+0+0  eDP-1"
var monitorLine = regexp.MustCompile(`^\s*(\d+):\s+\+?\*?(\S+)\s+(\d+)/\d+x(\d+)/\d+([+-]\d+)([+-]\d+)`)

func parseMonitors(out []byte) ([]shotlib.Display, error) {
	var ds []shotlib.Display
	for _, line := range strings.Split(string(out), "\n") {
		m := monitorLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		w, _ := strconv.Atoi(m[3])
		h, _ := strconv.Atoi(m[4])
		x, _ := strconv.Atoi(m[5])
		y, _ := strconv.Atoi(m[6])
		ds = append(ds, shotlib.Display{
			Index:  len(ds),
			ID:     m[1],
			Name:   m[2],
			Bounds: image.Rect(x, y, x+w, y+h),
		})
	}
	if len(ds) == 0 {
		return nil, fmt.Errorf("no monitors in xrandr output")
	}
	return ds, nil
}

var _ shotlib.Capturer = (*X11)(nil)
