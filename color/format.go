package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultFill  = "█"
	DefaultEmpty = "░"
)

// ProgressBar renders length cells, the first floor(percent*length/100) of
// them filled. percent is clamped to [0,100].
func ProgressBar(percent float64, length int, empty, fill string) string {
	if length <= 0 {
		return ""
	}
	if empty == "" {
		empty = DefaultEmpty
	}
	if fill == "" {
		fill = DefaultFill
	}
	if math.IsNaN(percent) {
		percent = 0
	}
	percent = math.Max(0, math.Min(100, percent))

	filled := int(math.Floor(percent * float64(length) / 100))
	if filled > length {
		filled = length
	}
	return strings.Repeat(fill, filled) + strings.Repeat(empty, length-filled)
}

// ThresholdColor picks highColor at or above high, midColor at or above mid,
// lowColor otherwise, and returns its foreground escape. low only bounds the
// low band, so it never changes the result.
func ThresholdColor(value, low, mid, high float64, lowColor, midColor, highColor string) string {
	switch {
	case FloatGTE(value, high):
		return FG(highColor)
	case FloatGTE(value, mid):
		return FG(midColor)
	default:
		return FG(lowColor)
	}
}

// FormatNumber abbreviates n with K/M suffixes at one decimal place.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Duration styles accepted by FormatDuration.
const (
	DurationShort = "short"
	DurationLong  = "long"
)

// FormatDuration renders ms as its two most significant units ("1h 5m",
// "4m 2s", "9s"). The long style spells the units out and keeps the
// subordinate unit only below hours.
func FormatDuration(ms int64, style string) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	s := (ms / 1_000) % 60

	if style == DurationLong {
		switch {
		case h > 0:
			return fmt.Sprintf("%d hours %d minutes", h, m)
		case m > 0:
			return fmt.Sprintf("%d minutes", m)
		default:
			return fmt.Sprintf("%d seconds", s)
		}
	}

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

const epsilon = 1e-9

// FloatGTE reports a >= b, tolerating representation error.
func FloatGTE(a, b float64) bool {
	return a > b || math.Abs(a-b) < epsilon
}

// FloatDiv formats a/b with the given decimals. Division by zero yields zero.
func FloatDiv(a, b float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if b == 0 {
		return strconv.FormatFloat(0, 'f', decimals, 64)
	}
	return strconv.FormatFloat(a/b, 'f', decimals, 64)
}
