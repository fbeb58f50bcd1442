package util

import (
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// ParseInt converts a token to int64.
func ParseInt(value string) (int64, error) {
	return strconv.ParseInt(value, 10, 64)
}

// ParseFloat converts a token to float64.
func ParseFloat(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}

// ParseBool converts a token to bool. It accepts the strconv.ParseBool
// spellings (1, t, true, 0, f, false and their case variants).
func ParseBool(value string) (bool, error) {
	return strconv.ParseBool(value)
}

// ParseTime converts a token to time.Time, accepting any layout dateparse
// can recognize, interpreted in the local time zone.
func ParseTime(value string) (time.Time, error) {
	return dateparse.ParseLocal(value)
}
