package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber accepts a decoded JSON value that is a finite number or a
// string holding one. Empty strings, booleans and NaN/Inf are rejected.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
