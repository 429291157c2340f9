package utils

import (
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// UnknownDate is printed in place of a modification time that cannot be read.
const UnknownDate = "Unknown date"

// FormatTimestamp renders the provided time in UTC with second precision.
// Times that are zero or predate the Unix epoch yield UnknownDate.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() || value.Before(time.Unix(0, 0)) {
		return UnknownDate
	}
	return value.UTC().Format(timestampLayout)
}
