package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/autoshot/autoshot/pkg/shotcli"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/dustin/go-humanize"
)

// newClient is swapped out by tests.
var newClient = shotcli.NewClient

func describeConfig(cfg shotlib.Configuration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "every %d minute(s) into %s", cfg.IntervalMinutes, cfg.SaveDirectory)
	fmt.Fprintf(&b, " on %s", strings.Join(cfg.Days(), ","))
	if cfg.HasWindow() {
		fmt.Fprintf(&b, " between %s and %s", cfg.AllowedStartTime, cfg.AllowedEndTime)
	}
	if cfg.OutputScalePercent != shotlib.DefaultScalePercent {
		fmt.Fprintf(&b, ", scaled to %d%%", cfg.OutputScalePercent)
	}
	if cfg.OutputQualityPercent != shotlib.DefaultQualityPercent {
		fmt.Fprintf(&b, ", quality %d%%", cfg.OutputQualityPercent)
	}
	return b.String()
}

// describeCycle renders a cycle result on one line followed by one line
// per failed display.
func describeCycle(res *shotlib.CycleResult) string {
	if res == nil {
		return "none"
	}
	line := fmt.Sprintf("%s %s", res.StartedAt.Format("2006-01-02 15:04:05"), res.Summary())
	if res.Bytes > 0 {
		line += fmt.Sprintf(" (%s)", humanize.IBytes(uint64(res.Bytes)))
	}
	for _, f := range res.Failures {
		line += fmt.Sprintf("\n    display %d: %s: %s", f.Display+1, f.Kind, f.Reason)
	}
	return line
}

func describeNextTick(next *time.Time) string {
	if next == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", next.Format("15:04:05"), humanize.Time(*next))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
