package utils

import (
	"fmt"
	"time"
)

// DefaultDateFormat is the day-level format used in JSON payloads.
const DefaultDateFormat = "2006-01-02"

// timestampLayouts are the layouts seen in Trading 212 exports, most common first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses a transaction timestamp string, trying each known layout.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", value)
}

// FormatDate renders a time as a day-level date string for JSON payloads.
func FormatDate(t time.Time) string {
	return t.Format(DefaultDateFormat)
}
