package util

import "time"

// NowISO returns the current UTC time in ISO-8601 (RFC 3339) format,
// the timestamp format carried by every broadcast event.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// FormatISO formats a time in ISO-8601 (RFC 3339) format.
func FormatISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
