package shotlib

import "time"

// SkipReason explains why a cycle produced no captures.
type SkipReason string

const (
	SkipNone   SkipReason = ""
	SkipLocked SkipReason = "locked"
	SkipDay    SkipReason = "day"
	SkipWindow SkipReason = "window"
	// SkipBusy is set by the scheduler when the previous cycle is still
	// running.
	SkipBusy SkipReason = "busy"
)

// IsEligible reports whether a capture may happen at now.
func IsEligible(now time.Time, cfg Configuration, locked bool) bool {
	return Eligibility(now, cfg, locked) == SkipNone
}

// Eligibility applies the gate checks in order (lock, day, window) and
// returns the first reason that rejects now, or SkipNone.
//
// The window is inclusive on both ends at minute resolution. A start later
// than the end describes a window that wraps past midnight.
func Eligibility(now time.Time, cfg Configuration, locked bool) SkipReason {
	if locked {
		return SkipLocked
	}
	today := DayToken(now.Weekday())
	allowed := false
	for _, d := range cfg.Days() {
		if wd, err := ParseDay(d); err == nil && dayTokens[wd] == today {
			allowed = true
			break
		}
	}
	if !allowed {
		return SkipDay
	}
	if !cfg.HasWindow() {
		return SkipNone
	}
	start, err := ParseClock(cfg.AllowedStartTime)
	if err != nil {
		return SkipWindow
	}
	end, err := ParseClock(cfg.AllowedEndTime)
	if err != nil {
		return SkipWindow
	}
	current := now.Hour()*60 + now.Minute()
	if start <= end {
		if current < start || current > end {
			return SkipWindow
		}
		return SkipNone
	}
	if current >= start || current <= end {
		return SkipNone
	}
	return SkipWindow
}
