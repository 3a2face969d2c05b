package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

// isoDurationRe matches ISO-8601-like durations as emitted by video meta
// tags, e.g. "PT1M2S" or "P1DT2H3M4S". Each group is optional.
var isoDurationRe = regexp.MustCompile(`P(?:(\d+)D)?T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration converts an ISO-8601-like duration string to seconds.
// Empty or unrecognized input yields 0; parsing never fails.
func ParseISODuration(s string) int {
	if s == "" {
		return 0
	}
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	days := atoiOrZero(m[1])
	hours := atoiOrZero(m[2])
	minutes := atoiOrZero(m[3])
	seconds := atoiOrZero(m[4])
	return days*86400 + hours*3600 + minutes*60 + seconds
}

// FormatDuration renders seconds as "H:MM:SS" above one hour, "M:SS"
// below, and "00:00" for zero. Day boundaries are folded into hours, so
// this is intentionally lossy for multi-day inputs.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "00:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
