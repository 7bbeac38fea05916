package split

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Round returns x rounded to cents, half away from zero on its shortest
// decimal representation. NaN and infinities are returned unchanged.
func Round(x float64) float64 {
	if !finite(x) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

// ParseAmount reads a user-typed amount in plain decimal notation, an
// optional sign followed by digits and at most one point. Anything else,
// exponents and hex floats included, yields NaN.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if !plainDecimal(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return math.NaN()
	}
	return v
}

func plainDecimal(s string) bool {
	s = strings.TrimLeft(s, "+-")
	digits, points := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			points++
		default:
			return false
		}
	}
	return digits > 0 && points <= 1
}

// FormatAmount renders v the way it is echoed back into a text input.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// sum adds values in decimal so that balances and cents do not drift.
// Non-finite values are skipped.
func sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		if !finite(v) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Float64()
	return f
}
