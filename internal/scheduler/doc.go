// Package scheduler drives periodic capture cycles for autoshot.
//
// A Scheduler owns the active configuration, one repeating timer and the
// externally maintained lock flag. Start and Update run one cycle
// immediately and (re)arm the timer; Stop only cancels future ticks, so a
// cycle already in flight always finishes. Each tick runs its cycle in a
// separate goroutine; a tick that arrives while the previous cycle is still
// running is recorded as skipped with reason "busy".
//
// The default timer compares wall-clock deadlines and never sleeps longer
// than maxSleepCap, so ticks stay on schedule across NTP steps, DST changes
// and system sleep, where a monotonic ticker would drift.
package scheduler
