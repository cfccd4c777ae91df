package core

import "strconv"

// FormatNumber renders a float without a trailing fractional part when the
// value is integral ("110000" rather than "110000.000000").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
