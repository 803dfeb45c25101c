package enum

import (
	"strings"
	"time"
)

// TimeFrame is the named reporting window shared with dashboard callers
type TimeFrame string

const (
	TimeFrame24h      TimeFrame = "24h"
	TimeFrame3d       TimeFrame = "3d"
	TimeFrame7d       TimeFrame = "7d"
	TimeFrame15d      TimeFrame = "15d"
	TimeFrame30d      TimeFrame = "30d"
	TimeFrame6m       TimeFrame = "6m"
	TimeFrame1y       TimeFrame = "1y"
	TimeFrameLifetime TimeFrame = "lifetime"
)

// ParseTimeFrame maps a token to a TimeFrame. Unknown tokens mean lifetime.
func ParseTimeFrame(s string) TimeFrame {
	tf := TimeFrame(strings.ToLower(strings.TrimSpace(s)))
	if tf.IsValid() {
		return tf
	}
	return TimeFrameLifetime
}

// IsValid checks if the time frame is part of the shared vocabulary
func (tf TimeFrame) IsValid() bool {
	switch tf {
	case TimeFrame24h, TimeFrame3d, TimeFrame7d, TimeFrame15d, TimeFrame30d,
		TimeFrame6m, TimeFrame1y, TimeFrameLifetime:
		return true
	}
	return false
}

func (tf TimeFrame) String() string {
	return string(tf)
}

// Start returns the beginning of the upstream filter window ending at now.
// Day frames step back calendar days, 6m and 1y step back calendar months and years.
// bounded is false for lifetime and unknown frames.
func (tf TimeFrame) Start(now time.Time) (start time.Time, bounded bool) {
	switch tf {
	case TimeFrame24h:
		return now.Add(-24 * time.Hour), true
	case TimeFrame3d:
		return now.AddDate(0, 0, -3), true
	case TimeFrame7d:
		return now.AddDate(0, 0, -7), true
	case TimeFrame15d:
		return now.AddDate(0, 0, -15), true
	case TimeFrame30d:
		return now.AddDate(0, 0, -30), true
	case TimeFrame6m:
		return now.AddDate(0, -6, 0), true
	case TimeFrame1y:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// Window is a comparison interval, see GrowthWindows for the bound semantics
type Window struct {
	Start time.Time
	End   time.Time
}

// GrowthWindows returns the current window [current.Start, now] and the equal-length
// window immediately before it [previous.Start, current.Start).
// Lifetime and unknown frames compare 30 days.
func (tf TimeFrame) GrowthWindows(now time.Time) (current, previous Window) {
	const day = 24 * time.Hour

	stepBack := func(d time.Duration) {
		current = Window{Start: now.Add(-d), End: now}
		previous = Window{Start: current.Start.Add(-d), End: current.Start}
	}

	switch tf {
	case TimeFrame24h:
		stepBack(day)
	case TimeFrame3d:
		stepBack(3 * day)
	case TimeFrame7d:
		stepBack(7 * day)
	case TimeFrame15d:
		stepBack(15 * day)
	case TimeFrame6m:
		current = Window{Start: now.AddDate(0, -6, 0), End: now}
		previous = Window{Start: now.AddDate(0, -12, 0), End: current.Start}
	case TimeFrame1y:
		current = Window{Start: now.AddDate(-1, 0, 0), End: now}
		previous = Window{Start: now.AddDate(-2, 0, 0), End: current.Start}
	default:
		stepBack(30 * day)
	}
	return current, previous
}
