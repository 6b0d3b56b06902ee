package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultLimit bounds the "list all" result when no usable limit is given.
const DefaultLimit = 100

// ParseLimit converts a caller-supplied limit of any JSON-decoded type into a
// positive bound. Missing, zero, negative and non-numeric values yield
// DefaultLimit. Numbers are truncated; strings are read up to the first
// non-digit, so "12abc" is 12.
func ParseLimit(v any) int {
	switch x := v.(type) {
	case nil:
		return DefaultLimit
	case int:
		return positiveOrDefault(x)
	case int64:
		return positiveOrDefault(clampInt(float64(x)))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return DefaultLimit
		}
		return positiveOrDefault(clampInt(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return ParseLimit(f)
		}
		return parseLeadingInt(x.String())
	case string:
		return parseLeadingInt(x)
	default:
		return DefaultLimit
	}
}

// Resolve returns limit when positive, otherwise fallback (or DefaultLimit when
// fallback is not positive either).
func Resolve(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultLimit
}

func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return DefaultLimit
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// only a range error is possible here
		if s[0] == '-' {
			return DefaultLimit
		}
		return math.MaxInt
	}
	return positiveOrDefault(n)
}

func clampInt(f float64) int {
	if f >= math.MaxInt {
		return math.MaxInt
	}
	if f <= math.MinInt {
		return math.MinInt
	}
	return int(f)
}

func positiveOrDefault(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return n
}
