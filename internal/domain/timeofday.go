package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time with minute precision. It carries no date
// or timezone; arithmetic wraps at midnight.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay creates a TimeOfDay, rejecting hours outside [0,24) and
// minutes outside [0,60) with ErrInvalidTime.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour >= 24 || minute < 0 || minute >= 60 {
		return TimeOfDay{}, fmt.Errorf("%w: hour=%d, minute=%d", ErrInvalidTime, hour, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// DefaultStartTime is 09:00.
func DefaultStartTime() TimeOfDay { return TimeOfDay{Hour: 9} }

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok || strings.Contains(m, ":") {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, err := strconv.ParseUint(h, 10, 8)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	minute, err := strconv.ParseUint(m, 10, 8)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return NewTimeOfDay(int(hour), int(minute))
}

// TimeOfDayFromMinutes converts minutes since midnight to a TimeOfDay,
// wrapping modulo 24 hours. Negative totals wrap backwards from midnight.
func TimeOfDayFromMinutes(total int) TimeOfDay {
	total %= minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

// Add returns the time the given number of minutes later, wrapping at
// midnight.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return TimeOfDayFromMinutes(t.Minutes() + minutes)
}

// Format renders the time as zero-padded "HH:MM".
func (t TimeOfDay) Format() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// String implements fmt.Stringer.
func (t TimeOfDay) String() string { return t.Format() }

// MarshalText encodes the time as "HH:MM" for JSON and YAML.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.Format()), nil
}

// UnmarshalText decodes an "HH:MM" string.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
