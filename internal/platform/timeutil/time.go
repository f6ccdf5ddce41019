package timeutil

import (
	"time"
)

// RFC3339Millis is RFC 3339 UTC with fixed millisecond precision, used for
// timestamps in API payloads and profile exports.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision, used for log timestamps.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// Time wraps time.Time so JSON output is always "2024-01-15T10:30:00.000Z".
// JSON null leaves the existing value untouched.
type Time struct {
	time.Time
}

// MarshalJSON implements json.Marshaler with fixed millisecond precision.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(RFC3339Millis) + `"`), nil
}

// UnmarshalJSON accepts any RFC 3339 variant.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// FromUnixMillis converts a stored millisecond epoch into a Time. Zero maps to
// the zero Time so absent timestamps stay distinguishable.
func FromUnixMillis(ms int64) Time {
	if ms == 0 {
		return Time{}
	}
	return Time{Time: time.UnixMilli(ms).UTC()}
}

// Clock returns the current time. Components take a Clock so tests can pin it.
type Clock func() time.Time

// SystemClock is the default Clock returning UTC wall time.
func SystemClock() time.Time {
	return time.Now().UTC()
}
