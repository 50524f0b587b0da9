// Package jalali converts Gregorian instants into the Solar Hijri (Jalali) calendar
// used to label, order and group ledger entries.
//
// All conversions are pure integer arithmetic. The only clock dependent function is
// Now, which takes its clock as an argument.
package jalali

import "time"

const (
	// epochDays aligns the Gregorian day count with the start of a 33-year cycle.
	epochDays = 355666
	epochYear = -1595

	cycleDays    = 12053 // 33 years
	subCycleDays = 1461  // 4 years

	// firstRunDays is the length of the six 31-day months that open the year.
	firstRunDays = 6 * 31

	// weekdayYearOffset and weekdayDayOffset place a Jalali date on the Gregorian
	// calendar for weekday lookup. Accurate for the current era only.
	weekdayYearOffset = 621
	weekdayDayOffset  = 79
)

// gregorianDaysBefore holds the number of days preceding each Gregorian month in a
// common year.
var gregorianDaysBefore = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// leapRemainders are the positions inside a 33-year cycle that carry a 30-day Esfand.
var leapRemainders = [...]int{1, 5, 9, 13, 17, 22, 26, 30}

// FromGregorian converts a proleptic Gregorian date to the Jalali calendar.
//
// Months outside [1,12] and days outside the length of the Gregorian month return
// ErrInvalidDate.
func FromGregorian(gy, gm, gd int) (Date, error) {
	if gm < 1 || gm > 12 || gd < 1 || gd > gregorianDaysIn(gy, gm) {
		return Date{}, invalidDate(gy, gm, gd)
	}

	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}

	days := epochDays + 365*gy +
		floorDiv(gy2+3, 4) - floorDiv(gy2+99, 100) + floorDiv(gy2+399, 400) +
		gd + gregorianDaysBefore[gm-1]

	jy := epochYear + 33*floorDiv(days, cycleDays)
	days = floorMod(days, cycleDays)

	jy += 4 * (days / subCycleDays)
	days %= subCycleDays

	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}

	var jm, jd int
	if days < firstRunDays {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-firstRunDays)/30
		jd = 1 + (days-firstRunDays)%30
	}

	return Date{year: jy, month: jm, day: jd}, nil
}

// FromTime converts the calendar day of t, in t's location, to the Jalali calendar.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	// t.Date always yields a valid Gregorian day.
	jd, _ := FromGregorian(y, int(m), d)

	return jd
}

// IsLeapYear reports whether Esfand of year jy has 30 days.
func IsLeapYear(jy int) bool {
	r := floorMod(jy, 33)
	for _, l := range leapRemainders {
		if r == l {
			return true
		}
	}

	return false
}

// DaysInMonth returns the length of month jm in year jy, or 0 when jm is not a month.
func DaysInMonth(jy, jm int) int {
	switch {
	case jm >= 1 && jm <= 6:
		return 31
	case jm >= 7 && jm <= 11:
		return 30
	case jm == 12:
		if IsLeapYear(jy) {
			return 30
		}

		return 29
	}

	return 0
}

// dayOfYear returns the 1-based ordinal of the day inside its Jalali year.
func dayOfYear(jm, jd int) int {
	if jm <= 6 {
		return (jm-1)*31 + jd
	}

	return firstRunDays + (jm-7)*30 + jd
}

// weekday maps a Jalali date onto an approximate Gregorian date and reads its weekday.
func weekday(jy, jm, jd int) time.Weekday {
	gy := jy + weekdayYearOffset
	doy := dayOfYear(jm, jd) + weekdayDayOffset

	if n := gregorianYearDays(gy); doy > n {
		doy -= n
		gy++
	}

	return time.Date(gy, time.January, doy, 0, 0, 0, 0, time.UTC).Weekday()
}

func gregorianYearDays(gy int) int {
	if (gy%4 == 0 && gy%100 != 0) || gy%400 == 0 {
		return 366
	}

	return 365
}

// gregorianDaysIn returns the length of month gm, which must be within [1,12].
func gregorianDaysIn(gy, gm int) int {
	if gm == 12 {
		return 31
	}

	n := gregorianDaysBefore[gm] - gregorianDaysBefore[gm-1]
	if gm == 2 && gregorianYearDays(gy) == 366 {
		n++
	}

	return n
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
