package regression

import (
	"math"
	"strconv"
)

// Display thresholds for FormatNumber.
const (
	sciUpper = 1e6
	sciLower = 1e-4
)

// FormatNumber renders v for equations and worked steps. Magnitudes of at
// least 1e6, or non-zero magnitudes below 1e-4, use scientific notation with
// six significant digits; everything else is rounded to six decimal places
// with trailing zeros dropped.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}

	av := math.Abs(v)
	if av >= sciUpper || (av != 0 && av < sciLower) {
		return strconv.FormatFloat(v, 'e', 5, 64)
	}
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// signedTerm renders " + v suffix" or " - |v| suffix".
func signedTerm(v float64, suffix string) string {
	if v < 0 {
		return " - " + FormatNumber(-v) + suffix
	}
	return " + " + FormatNumber(v) + suffix
}

// exponent parenthesises negative powers: x^2, x^(-0.5).
func exponent(v float64) string {
	s := FormatNumber(v)
	if v < 0 {
		return "(" + s + ")"
	}
	return s
}
