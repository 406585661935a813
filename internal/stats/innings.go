package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The stats API encodes innings pitched as "W.O" where W is whole
// innings and O is outs recorded in the partial inning (0-2). "6.1"
// therefore means six and one third innings, not six and one tenth.
// The upstream family app parsed these with a generic float parse and
// silently summed tenths; that convention is rejected here in favor of
// the baseball one.

// ParseInnings converts a fractional-innings string to decimal innings.
// Malformed or empty input parses as zero, and an out digit of 3 or
// more falls back to a plain float parse so a genuinely decimal value
// is not mangled.
func ParseInnings(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	whole, frac, found := strings.Cut(s, ".")
	w, err := strconv.Atoi(whole)
	if err != nil {
		return 0
	}
	if !found || frac == "" {
		return float64(w)
	}
	outs, err := strconv.Atoi(frac)
	if err != nil {
		return float64(w)
	}
	if outs > 2 {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return float64(w)
	}
	return float64(w) + float64(outs)/3.0
}

// FormatInnings renders decimal innings back into the "W.O" encoding.
func FormatInnings(innings float64) string {
	if innings < 0 {
		innings = 0
	}
	whole := math.Floor(innings)
	outs := int(math.Round((innings - whole) * 3))
	if outs >= 3 {
		whole++
		outs = 0
	}
	return fmt.Sprintf("%d.%d", int(whole), outs)
}
