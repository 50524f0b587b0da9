package jalali

import (
	"cmp"
	"encoding/json"
	"fmt"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in the local time zone.
var SystemClock Clock = ClockFunc(time.Now)

// Now returns the current Jalali date and wall-clock time of day according to c.
func Now(c Clock) (Date, TimeOfDay) {
	t := c.Now()
	return FromTime(t), TimeOfDay{hour: t.Hour(), minute: t.Minute()}
}

// TimeOfDay is an hour and minute on a 24-hour clock.
type TimeOfDay struct {
	hour   int
	minute int
}

// NewTimeOfDay returns h:m or ErrInvalidTime when either part is out of range.
func NewTimeOfDay(h, m int) (TimeOfDay, error) {
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %d:%d", ErrInvalidTime, h, m)
	}

	return TimeOfDay{hour: h, minute: m}, nil
}

// MustTimeOfDay is like NewTimeOfDay but panics on error.
func MustTimeOfDay(h, m int) TimeOfDay {
	t, err := NewTimeOfDay(h, m)
	if err != nil {
		panic(err.Error())
	}

	return t
}

// ParseTimeOfDay reads a zero padded HH:MM value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return TimeOfDay{}, fmt.Errorf("%w: %q want format HH:MM", ErrInvalidTime, s)
	}

	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')

	return NewTimeOfDay(h, m)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func (t TimeOfDay) Hour() int   { return t.hour }
func (t TimeOfDay) Minute() int { return t.minute }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.hour, t.minute) }

// Compare orders by hour, then minute.
func (t TimeOfDay) Compare(x TimeOfDay) int {
	if c := cmp.Compare(t.hour, x.hour); c != 0 {
		return c
	}

	return cmp.Compare(t.minute, x.minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}

	return t.UnmarshalText([]byte(s))
}
