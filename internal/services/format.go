package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sosodev/duration"
)

// UnknownDuration is rendered wherever a source reports no length.
const UnknownDuration = "00:00"

// FormatDuration renders seconds as H:MM:SS from one hour up, M:SS below.
// Hours are never padded. A negative value means "unknown".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		return UnknownDuration
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatDurationValue formats a numeric string of seconds. Fractions are
// floored; blank or non-numeric input yields UnknownDuration.
func FormatDurationValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownDuration
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return UnknownDuration
	}
	return FormatDuration(int64(math.Floor(f)))
}

// EstimateSize approximates the encoded size of durationSeconds of audio at
// bitrateKbps. It is a display hint, not derived from real byte counts.
func EstimateSize(durationSeconds int64, bitrateKbps int) string {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	sizeKB := float64(bitrateKbps) * float64(durationSeconds) / 8
	if sizeKB > 1024 {
		return fmt.Sprintf("%.2f MB", sizeKB/1024)
	}
	return fmt.Sprintf("%d KB", int64(math.Ceil(sizeKB)))
}

// FormatContentLength renders a byte count the way format listings show it.
func FormatContentLength(n int64) string {
	if n <= 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
}

// Truncate caps s at limit runes and appends "..." when something was cut.
func Truncate(s string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

// ParseISODuration converts a YouTube Data API duration such as "PT4M13S"
// into seconds. It returns -1 for anything it does not understand, including
// the "P0D" reported for live streams.
func ParseISODuration(d string) int64 {
	parsed, err := duration.Parse(strings.TrimSpace(d))
	if err != nil {
		return -1
	}
	secs := int64(parsed.ToTimeDuration().Seconds())
	if secs <= 0 {
		return -1
	}
	return secs
}
