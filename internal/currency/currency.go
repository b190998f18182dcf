// Package currency renders monetary amounts the way the form displays them.
package currency

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Zero is the placeholder shown before any prediction exists.
const Zero = "$0.00"

// Format renders v as en-US dollars with a thousands separator and exactly
// two fraction digits. Rounding is half away from zero on the shortest
// decimal representation of v, so 199999.995 becomes $200,000.00.
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Zero
	}

	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("$")
	b.WriteString(group(whole))
	b.WriteString(".")
	b.WriteString(frac)
	return b.String()
}

// group inserts thousands separators into a string of digits.
func group(digits string) string {
	if n, err := decimal.NewFromString(digits); err == nil && n.LessThan(decimal.NewFromInt(math.MaxInt64)) {
		return humanize.Comma(n.IntPart())
	}

	// Beyond int64 range; group by hand.
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Round2 rounds the exact binary value of v to two decimal places. Exact
// ties only occur for representable values and go to the even digit, so
// 2.675 becomes 2.67 and 0.125 becomes 0.12.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return f
}

// FormatReported renders v the way the prediction service reports it: the
// sign follows the dollar symbol, so -5 becomes $-5.00.
func FormatReported(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Zero
	}
	s := Format(math.Abs(v))
	if math.Signbit(v) {
		return "$-" + s[1:]
	}
	return s
}
