package shotlib

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultIntervalMinutes = 5
	DefaultScalePercent    = 100
	DefaultQualityPercent  = 100
)

var dayTokens = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DefaultDays is used whenever a configuration carries no allowed days.
var DefaultDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// Configuration is the complete set of user-facing capture parameters.
// It is treated as an immutable value: callers replace it wholesale.
type Configuration struct {
	IntervalMinutes      int      `json:"interval_minutes" yaml:"interval_minutes"`
	SaveDirectory        string   `json:"save_directory" yaml:"save_directory"`
	AllowedStartTime     string   `json:"allowed_start_time,omitempty" yaml:"allowed_start_time,omitempty"`
	AllowedEndTime       string   `json:"allowed_end_time,omitempty" yaml:"allowed_end_time,omitempty"`
	AllowedDays          []string `json:"allowed_days,omitempty" yaml:"allowed_days,omitempty"`
	OutputScalePercent   int      `json:"output_scale_percent" yaml:"output_scale_percent"`
	OutputQualityPercent int      `json:"output_quality_percent" yaml:"output_quality_percent"`
}

// Interval returns the tick period.
func (c Configuration) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Days returns the allowed day tokens, falling back to DefaultDays.
func (c Configuration) Days() []string {
	if len(c.AllowedDays) == 0 {
		return DefaultDays
	}
	return c.AllowedDays
}

// HasWindow reports whether both time-of-day bounds are set.
func (c Configuration) HasWindow() bool {
	return c.AllowedStartTime != "" && c.AllowedEndTime != ""
}

// Normalize returns a copy with trimmed fields, canonical day tokens and
// defaults applied to unset scale and quality. Unknown day tokens are kept
// verbatim so that Validate can report them.
func (c Configuration) Normalize() Configuration {
	out := c
	out.SaveDirectory = strings.TrimSpace(c.SaveDirectory)
	if out.SaveDirectory != "" {
		out.SaveDirectory = filepath.Clean(out.SaveDirectory)
	}
	out.AllowedStartTime = strings.TrimSpace(c.AllowedStartTime)
	out.AllowedEndTime = strings.TrimSpace(c.AllowedEndTime)
	if out.OutputScalePercent == 0 {
		out.OutputScalePercent = DefaultScalePercent
	}
	if out.OutputQualityPercent == 0 {
		out.OutputQualityPercent = DefaultQualityPercent
	}
	out.AllowedDays = nil
	seen := make(map[string]bool, len(c.AllowedDays))
	for _, d := range c.AllowedDays {
		tok := strings.TrimSpace(d)
		if tok == "" {
			continue
		}
		if wd, err := ParseDay(tok); err == nil {
			tok = dayTokens[wd]
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out.AllowedDays = append(out.AllowedDays, tok)
	}
	return out
}

// Validate reports the first problem found as an ErrConfiguration.
func (c Configuration) Validate() error {
	if c.IntervalMinutes <= 0 {
		return configError("interval must be a positive number of minutes, got %d", c.IntervalMinutes)
	}
	if c.SaveDirectory == "" {
		return configError("save directory is required")
	}
	if !filepath.IsAbs(c.SaveDirectory) {
		return configError("save directory must be an absolute path: %s", c.SaveDirectory)
	}
	if c.AllowedStartTime != "" {
		if _, err := ParseClock(c.AllowedStartTime); err != nil {
			return configError("start time: %v", err)
		}
	}
	if c.AllowedEndTime != "" {
		if _, err := ParseClock(c.AllowedEndTime); err != nil {
			return configError("end time: %v", err)
		}
	}
	for _, d := range c.AllowedDays {
		if _, err := ParseDay(d); err != nil {
			return configError("%v", err)
		}
	}
	if c.OutputScalePercent <= 0 || c.OutputScalePercent > 100 {
		return configError("scale must be within 1-100, got %d", c.OutputScalePercent)
	}
	if c.OutputQualityPercent <= 0 || c.OutputQualityPercent > 100 {
		return configError("quality must be within 1-100, got %d", c.OutputQualityPercent)
	}
	return nil
}

// ParseClock parses "HH:MM" (hour may be a single digit) and returns the
// number of minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// ParseDay accepts the three-letter token or the full English weekday name,
// in any case.
func ParseDay(s string) (time.Weekday, error) {
	tok := strings.ToLower(strings.TrimSpace(s))
	for i := time.Sunday; i <= time.Saturday; i++ {
		if tok == strings.ToLower(dayTokens[i]) || tok == strings.ToLower(i.String()) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// DayToken returns the canonical token for a weekday.
func DayToken(d time.Weekday) string {
	return dayTokens[d]
}
