package frame

import (
	"fmt"
	"time"
)

// Timestamp is a single instant: nanoseconds since the Unix epoch in UTC,
// an optional frequency string, and an optional zone name.
type Timestamp struct {
	Value int64
	Freq  string
	TZ    string
}

// NewTimestamp builds a Timestamp from a time.Time, recording the zone name
// for non-UTC locations.
func NewTimestamp(t time.Time) *Timestamp {
	ts := &Timestamp{Value: t.UnixNano()}
	if loc := t.Location(); loc != time.UTC && loc.String() != "" {
		ts.TZ = loc.String()
	}

	return ts
}

// Time materializes the instant, localized when a zone is recorded.
func (ts *Timestamp) Time() (time.Time, error) {
	t := time.Unix(0, ts.Value).UTC()
	if ts.TZ == "" {
		return t, nil
	}

	loc, err := time.LoadLocation(ts.TZ)
	if err != nil {
		return time.Time{}, err
	}

	return t.In(loc), nil
}

// NaTType is the not-a-time sentinel's type.
type NaTType struct{}

// NaT marks a missing instant.
var NaT = NaTType{}

func (NaTType) String() string { return "NaT" }

// Timedelta is a duration in nanoseconds.
type Timedelta int64

// Duration converts to a time.Duration.
func (td Timedelta) Duration() time.Duration {
	return time.Duration(td)
}

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as ISO 8601.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Period is a single regular period: an ordinal count since the epoch at
// the given frequency.
type Period struct {
	Ordinal int64
	Freq    string
}

// Interval is a single interval scalar with a closed side.
type Interval struct {
	Left   any
	Right  any
	Closed string
}

// Scalar is a width-faithful numeric scalar: a dtype plus the matching Go
// value (int8 for int8, float32 for float32, complex128 for complex128,
// and so on). Real and complex values travel as canonical string
// representations to avoid precision loss.
type Scalar struct {
	Dtype Dtype
	Value any
}
