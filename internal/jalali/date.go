package jalali

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat describes the string form of a Date.
const DateFormat = "YYYY/MM/DD"

var (
	ErrInvalidDate = errors.New("invalid jalali date")
	ErrInvalidTime = errors.New("invalid time of day")
)

func invalidDate(y, m, d int) error {
	return fmt.Errorf("%w: %d/%d/%d", ErrInvalidDate, y, m, d)
}

// Date is a validated Jalali calendar day. The zero value is not a valid date and
// reports IsZero.
type Date struct {
	year  int
	month int
	day   int
}

// NewDate returns the Jalali date y/m/d or ErrInvalidDate when the month or the day
// is outside the calendar.
func NewDate(y, m, d int) (Date, error) {
	if d < 1 || d > DaysInMonth(y, m) {
		return Date{}, invalidDate(y, m, d)
	}

	return Date{year: y, month: m, day: d}, nil
}

// MustDate is like NewDate but panics on error. Intended for tests and constants.
func MustDate(y, m, d int) Date {
	date, err := NewDate(y, m, d)
	if err != nil {
		panic(err.Error())
	}

	return date
}

// Parse reads a date written as Y/M/D. Parts do not need zero padding.
func Parse(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q want format %s", ErrInvalidDate, s, DateFormat)
	}

	var nums [3]int

	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q want format %s", ErrInvalidDate, s, DateFormat)
		}

		nums[i] = n
	}

	return NewDate(nums[0], nums[1], nums[2])
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}

	return d
}

func (d Date) Year() int  { return d.year }
func (d Date) Month() int { return d.month }
func (d Date) Day() int   { return d.day }

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// String formats the date as YYYY/MM/DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.year, d.month, d.day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.year != x.year:
		return cmp.Compare(d.year, x.year)
	case d.month != x.month:
		return cmp.Compare(d.month, x.month)
	}

	return cmp.Compare(d.day, x.day)
}

func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool  { return d.Compare(x) > 0 }

// Weekday returns the day of the week d falls on.
func (d Date) Weekday() time.Weekday { return weekday(d.year, d.month, d.day) }

// Label returns the weekday name followed by the date, as shown above a day of entries.
func (d Date) Label() string { return WeekdayName(d.Weekday()) + " - " + d.String() }

// WithYear moves d to year y, clamping the day to the length of the month in y.
func (d Date) WithYear(y int) Date {
	return Date{year: y, month: d.month, day: min(d.day, DaysInMonth(y, d.month))}
}

// WithMonth moves d to month m of the same year, clamping the day. Months outside
// [1,12] leave d unchanged.
func (d Date) WithMonth(m int) Date {
	n := DaysInMonth(d.year, m)
	if n == 0 {
		return d
	}

	return Date{year: d.year, month: m, day: min(d.day, n)}
}

// WithDay sets the day of month, clamped into [1, DaysInMonth].
func (d Date) WithDay(day int) Date {
	return Date{year: d.year, month: d.month, day: max(1, min(day, DaysInMonth(d.year, d.month)))}
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}

	return d.UnmarshalText([]byte(s))
}

var (
	_ json.Marshaler   = (*Date)(nil)
	_ json.Unmarshaler = (*Date)(nil)
)
