package utils

import "time"

const DefaultTimestampFormat = "02-01-2006 15:04:05"

// FormatTimestamp renders a block time the way the CSV and narration output
// expect it.
func FormatTimestamp(t time.Time) string {
	return t.Format(DefaultTimestampFormat)
}

// TimeFromEpochSeconds converts a raw block timestamp (whole seconds) into
// a time.Time in UTC.
func TimeFromEpochSeconds(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}
