package generic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// TIMESTAMP - Wall-clock instant persisted in the data files' text layout
// =============================================================================

// TimestampLayout is the persisted text form of record and log timestamps.
// Prefix filters ("2025", "2025-03") rely on this layout being lexically ordered.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the persisted text form of calendar dates (reminders, sessions).
const DateLayout = "2006-01-02"

type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t.Truncate(time.Second)} }

func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		// Imported data may carry RFC 3339 timestamps.
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return Timestamp{Time: t2}, nil
		}
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return Timestamp{Time: t}, nil
}

func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Time.Format(TimestampLayout)
}

// HasPrefix reports whether the text form of ts starts with prefix.
func (ts Timestamp) HasPrefix(prefix string) bool {
	return strings.HasPrefix(ts.String(), prefix)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Clock returns the current time. Stores take one so tests can pin time.
type Clock func() time.Time

// SystemClock is the default Clock.
func SystemClock() time.Time { return time.Now() }

// ValidDate reports whether s is a calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
