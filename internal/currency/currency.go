// Package currency converts between rials, the unit every amount is stored in, and
// tomans, the unit amounts are typed and displayed in.
package currency

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Ratio is the number of rials in one toman.
const Ratio = 10

// ErrInvalidAmount is the root of every amount error, including those returned by
// the transaction package.
var ErrInvalidAmount = errors.New("invalid amount")

var (
	minRial = decimal.NewFromInt(math.MinInt64)
	maxRial = decimal.NewFromInt(math.MaxInt64)
)

// ToToman converts rials to the nearest whole toman. Halves round up.
func ToToman(rial int64) int64 {
	q, r := rial/Ratio, rial%Ratio

	switch {
	case r >= Ratio/2:
		q++
	case r < -Ratio/2:
		q--
	}

	return q
}

// ToRial converts tomans to rials. The conversion is exact.
func ToRial(toman int64) int64 {
	return toman * Ratio
}

// Format renders rial as a digit-grouped toman numeral for the given locale.
func Format(rial int64, tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf("%d", ToToman(rial))
}

// digitReplacer maps Persian and Arabic-Indic digits to ASCII and drops grouping marks.
var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	",", "", "٬", "", "٫", ".", " ", "",
)

// ParseToman reads a toman amount as typed by a user ("1,500,000", "۲۵۰۰", "12.5")
// and returns it in rials, rounded to the nearest rial.
func ParseToman(input string) (int64, error) {
	clean := digitReplacer.Replace(strings.TrimSpace(input))
	if clean == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}

	rial := d.Mul(decimal.NewFromInt(Ratio)).Round(0)
	if rial.LessThan(minRial) || rial.GreaterThan(maxRial) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, input)
	}

	return rial.IntPart(), nil
}
