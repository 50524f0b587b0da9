package jalali

import "time"

var weekdayNames = [7]string{
	time.Sunday:    "یکشنبه",
	time.Monday:    "دوشنبه",
	time.Tuesday:   "سه‌شنبه",
	time.Wednesday: "چهارشنبه",
	time.Thursday:  "پنجشنبه",
	time.Friday:    "جمعه",
	time.Saturday:  "شنبه",
}

var monthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
}

// WeekdayName returns the Persian name of w.
func WeekdayName(w time.Weekday) string {
	if w < time.Sunday || w > time.Saturday {
		return ""
	}

	return weekdayNames[w]
}

// MonthName returns the Persian name of month m, or "" outside [1,12].
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}

	return monthNames[m-1]
}
