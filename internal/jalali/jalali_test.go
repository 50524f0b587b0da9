package jalali_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/hesab/internal/jalali"
)

func TestFromGregorian(t *testing.T) {
	type args struct {
		gy, gm, gd int
	}

	type testCase struct {
		name string
		args args
		want string
	}

	tests := []testCase{
		{name: "Nowruz 1402", args: args{2023, 3, 21}, want: "1402/01/01"},
		{name: "Nowruz 1403", args: args{2024, 3, 20}, want: "1403/01/01"},
		{name: "Last day of 1402", args: args{2024, 3, 19}, want: "1402/12/29"},
		{name: "Leap Esfand 30", args: args{2025, 3, 20}, want: "1403/12/30"},
		{name: "Leap Esfand 1399", args: args{2021, 3, 20}, want: "1399/12/30"},
		{name: "Second half of year", args: args{2026, 10, 19}, want: "1405/07/27"},
		{name: "Bahman", args: args{1979, 2, 11}, want: "1357/11/22"},
		{name: "Millennium", args: args{2000, 1, 1}, want: "1378/10/11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jalali.FromGregorian(tt.args.gy, tt.args.gm, tt.args.gd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFromGregorian_OutOfRange(t *testing.T) {
	type testCase struct {
		year, month, day int
	}

	tests := []testCase{
		{year: 2024, month: 0, day: 1},
		{year: 2024, month: 13, day: 1},
		{year: 2024, month: -1, day: 1},
		{year: 2023, month: 2, day: 29},
		{year: 2023, month: 2, day: 31},
		{year: 2023, month: 4, day: 31},
		{year: 2023, month: 3, day: 0},
		{year: 2023, month: 3, day: -5},
		{year: 2023, month: 1, day: 400},
		{year: 1900, month: 2, day: 29},
	}

	for _, tt := range tests {
		_, err := jalali.FromGregorian(tt.year, tt.month, tt.day)
		assert.ErrorIs(t, err, jalali.ErrInvalidDate, "%d-%d-%d", tt.year, tt.month, tt.day)
	}
}

func TestFromGregorian_MonthEnds(t *testing.T) {
	for _, gy := range []int{1900, 2000, 2023, 2024} {
		for gm := 1; gm <= 12; gm++ {
			last := time.Date(gy, time.Month(gm)+1, 0, 0, 0, 0, 0, time.UTC)

			got, err := jalali.FromGregorian(gy, gm, last.Day())
			require.NoError(t, err, "%d-%d-%d", gy, gm, last.Day())
			assert.Equal(t, jalali.FromTime(last), got)
		}
	}
}

func TestFromGregorian_DayWithinMonth(t *testing.T) {
	start := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2050, time.December, 31, 0, 0, 0, 0, time.UTC)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		got := jalali.FromTime(d)

		require.GreaterOrEqual(t, jalali.DaysInMonth(got.Year(), got.Month()), got.Day(), "gregorian %s -> %s", d.Format(time.DateOnly), got)
		require.GreaterOrEqual(t, got.Day(), 1)
	}
}

func TestFromGregorian_Consecutive(t *testing.T) {
	// Consecutive Gregorian days must land on consecutive Jalali days.
	prev := jalali.FromTime(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))

	for i := 1; i < 3*366; i++ {
		cur := jalali.FromTime(time.Date(2020, time.January, 1+i, 0, 0, 0, 0, time.UTC))

		want := prev.WithDay(prev.Day() + 1)
		if prev.Day() == jalali.DaysInMonth(prev.Year(), prev.Month()) {
			if prev.Month() == 12 {
				want = jalali.MustDate(prev.Year()+1, 1, 1)
			} else {
				want = jalali.MustDate(prev.Year(), prev.Month()+1, 1)
			}
		}

		require.Equal(t, want, cur, "after %s", prev)

		prev = cur
	}
}

func TestIsLeapYear(t *testing.T) {
	leap := map[int]bool{1: true, 5: true, 9: true, 13: true, 17: true, 22: true, 26: true, 30: true}

	for y := 1300; y < 1500; y++ {
		want := leap[y%33]
		assert.Equal(t, want, jalali.IsLeapYear(y), "year %d", y)

		if want {
			assert.Equal(t, 30, jalali.DaysInMonth(y, 12), "year %d", y)
		} else {
			assert.Equal(t, 29, jalali.DaysInMonth(y, 12), "year %d", y)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	for m := 1; m <= 6; m++ {
		assert.Equal(t, 31, jalali.DaysInMonth(1402, m))
	}

	for m := 7; m <= 11; m++ {
		assert.Equal(t, 30, jalali.DaysInMonth(1402, m))
	}

	assert.Equal(t, 0, jalali.DaysInMonth(1402, 0))
	assert.Equal(t, 0, jalali.DaysInMonth(1402, 13))
}

func TestDate_Weekday(t *testing.T) {
	type testCase struct {
		date string
		want time.Weekday
	}

	tests := []testCase{
		{date: "1402/01/01", want: time.Tuesday},
		{date: "1403/01/01", want: time.Wednesday},
		{date: "1401/12/29", want: time.Monday},
		{date: "1399/12/30", want: time.Saturday},
		{date: "1405/07/27", want: time.Monday},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, jalali.MustParse(tt.date).Weekday())
		})
	}
}

func TestDate_Label(t *testing.T) {
	assert.Equal(t, "سه‌شنبه - 1402/01/01", jalali.MustDate(1402, 1, 1).Label())
}

func TestNewDate_Invalid(t *testing.T) {
	type testCase struct {
		name    string
		y, m, d int
	}

	tests := []testCase{
		{name: "Month zero", y: 1402, m: 0, d: 1},
		{name: "Month thirteen", y: 1402, m: 13, d: 1},
		{name: "Day zero", y: 1402, m: 1, d: 0},
		{name: "Mehr 31", y: 1402, m: 7, d: 31},
		{name: "Esfand 30 in common year", y: 1402, m: 12, d: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jalali.NewDate(tt.y, tt.m, tt.d)
			assert.ErrorIs(t, err, jalali.ErrInvalidDate)
		})
	}

	d, err := jalali.NewDate(1403, 12, 30)
	require.NoError(t, err)
	assert.Equal(t, "1403/12/30", d.String())
}

func TestParse(t *testing.T) {
	d, err := jalali.Parse("1402/1/5")
	require.NoError(t, err)
	assert.Equal(t, "1402/01/05", d.String())

	for _, s := range []string{"", "1402-01-05", "1402/01", "1402/aa/01", "1402/12/30"} {
		_, err := jalali.Parse(s)
		assert.ErrorIs(t, err, jalali.ErrInvalidDate, s)
	}
}

func TestDate_Compare(t *testing.T) {
	a := jalali.MustDate(1402, 1, 1)
	b := jalali.MustDate(1401, 12, 29)
	c := jalali.MustDate(1402, 2, 1)

	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(jalali.MustParse("1402/01/01")))
	assert.True(t, a.Before(c))
	assert.True(t, c.After(b))
}

func TestDate_Clamping(t *testing.T) {
	d := jalali.MustDate(1403, 12, 30)

	assert.Equal(t, "1402/12/29", d.WithYear(1402).String())
	assert.Equal(t, "1403/07/30", jalali.MustDate(1403, 6, 31).WithMonth(7).String())
	assert.Equal(t, "1403/06/31", jalali.MustDate(1403, 6, 31).WithMonth(13).String())
	assert.Equal(t, "1402/07/30", jalali.MustDate(1402, 7, 1).WithDay(31).String())
	assert.Equal(t, "1402/07/01", jalali.MustDate(1402, 7, 10).WithDay(0).String())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date jalali.Date      `json:"date"`
		Time jalali.TimeOfDay `json:"time"`
	}

	in := payload{Date: jalali.MustDate(1402, 1, 5), Time: jalali.MustTimeOfDay(9, 7)}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"1402/01/05","time":"09:07"}`, string(b))

	var out payload
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"date":"1402/13/01"}`), &out), jalali.ErrInvalidDate)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"time":"24:00"}`), &out), jalali.ErrInvalidTime)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := jalali.ParseTimeOfDay("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, tod.Hour())
	assert.Equal(t, 59, tod.Minute())

	for _, s := range []string{"9:00", "09:60", "24:00", "0900", "ab:cd", ""} {
		_, err := jalali.ParseTimeOfDay(s)
		assert.ErrorIs(t, err, jalali.ErrInvalidTime, s)
	}

	assert.Equal(t, 1, jalali.MustTimeOfDay(10, 0).Compare(jalali.MustTimeOfDay(9, 59)))
	assert.Equal(t, -1, jalali.MustTimeOfDay(10, 0).Compare(jalali.MustTimeOfDay(10, 1)))
}

func TestNow(t *testing.T) {
	clock := jalali.ClockFunc(func() time.Time {
		return time.Date(2023, time.March, 21, 8, 5, 30, 0, time.UTC)
	})

	date, tod := jalali.Now(clock)
	assert.Equal(t, "1402/01/01", date.String())
	assert.Equal(t, "08:05", tod.String())
}

func TestNames(t *testing.T) {
	assert.Equal(t, "فروردین", jalali.MonthName(1))
	assert.Equal(t, "اسفند", jalali.MonthName(12))
	assert.Empty(t, jalali.MonthName(0))
	assert.Equal(t, "جمعه", jalali.WeekdayName(time.Friday))
}
