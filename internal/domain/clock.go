package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidTime = errors.New("invalid time of day")

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time with minute granularity, stored as minutes
// since midnight. There is no date component.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (24h clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("parse time of day %q: %w", s, ErrInvalidTime)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("parse time of day %q: hour: %w", s, ErrInvalidTime)
	}

	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse time of day %q: minute: %w", s, ErrInvalidTime)
	}

	return TimeOfDay(h*60 + m), nil
}

// TimeOfDayFromMinutes converts a minute offset from midnight.
func TimeOfDayFromMinutes(minutes int) (TimeOfDay, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return 0, fmt.Errorf("time of day from minutes %d: %w", minutes, ErrInvalidTime)
	}
	return TimeOfDay(minutes), nil
}

// MustParseTimeOfDay is for literals in tests and defaults.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Minutes() int { return int(t) }

// AddSeconds advances the clock, wrapping at midnight.
func (t TimeOfDay) AddSeconds(sec float64) TimeOfDay {
	m := (int(t) + int(sec/60)) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return TimeOfDay(m)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Window is an inclusive time-of-day range. A window whose Start is after
// its End wraps across midnight.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseWindow parses a pair of "HH:MM" strings.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Window{}, fmt.Errorf("parse window: start: %w", err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Window{}, fmt.Errorf("parse window: end: %w", err)
	}
	return Window{Start: s, End: e}, nil
}

func (w Window) Contains(t TimeOfDay) bool {
	if w.Start <= w.End {
		return w.Start <= t && t <= w.End
	}
	return t >= w.Start || t <= w.End
}

func (w Window) Validate() error {
	if w.Start < 0 || int(w.Start) >= minutesPerDay || w.End < 0 || int(w.End) >= minutesPerDay {
		return fmt.Errorf("window %s: %w", w, ErrInvalidTime)
	}
	return nil
}

func (w Window) String() string { return w.Start.String() + "-" + w.End.String() }
