package tracker

import (
	"regexp"
	"strconv"
	"strings"
)

var nonAmount = regexp.MustCompile(`[^0-9.]`)

// ParseAmount converts a currency-formatted string ("$1,299.99") into whole
// currency units by truncation toward zero. No float ever touches the
// value; the integer part is parsed directly, so "19.999" is 19, not 20.
// ok is false when the input holds no digits at all after stripping, which
// marks the amount as absent rather than zero.
func ParseAmount(s string) (int64, bool) {
	s = nonAmount.ReplaceAllString(s, "")
	if s == "" {
		return 0, false
	}

	intPart, _, _ := strings.Cut(s, ".")
	if intPart == "" {
		// Values like ".99" truncate to zero but are still present.
		return 0, true
	}

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}
