package util

import (
	"strconv"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ClampInt constrains v to the inclusive range [min, max]
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ParsePage parses a page query value. Malformed input falls back to 1,
// and the result is clamped to >= 1 - feed requests are never rejected
// for bad pagination input.
func ParsePage(s string) int {
	page := ParseInt(s, 1)
	if page < 1 {
		return 1
	}
	return page
}

// ParseLimit parses a limit query value. Malformed input falls back to
// defaultLimit, and the result is clamped to [1, maxLimit].
func ParseLimit(s string, defaultLimit, maxLimit int) int {
	limit := ParseInt(s, defaultLimit)
	return ClampInt(limit, 1, maxLimit)
}
