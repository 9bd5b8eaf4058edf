package vtodo

import (
	"strings"
	"time"
)

// Layouts for the compact iCalendar encodings and the ISO-like strings used
// by the rest of the application. time.Parse does the range checking, so a
// value like 20251301 is rejected rather than stored malformed.
const (
	compactDate     = "20060102"
	compactDateTime = "20060102T150405Z"
	isoDate         = "2006-01-02"
	isoDateTime     = "2006-01-02T15:04:05"
)

// decodeDate reads the first 8 characters of v as a compact calendar date
// and returns it in ISO form. ok is false for anything unparseable.
func decodeDate(v string) (string, bool) {
	if len(v) < 8 {
		return "", false
	}
	t, err := time.Parse(compactDate, v[:8])
	if err != nil {
		return "", false
	}
	return t.Format(isoDate), true
}

// decodeDateTime reads a compact date-time (date in the first 8 characters,
// time in characters 9-14, trailing zone marker ignored) or a bare 8-digit
// date. Any other shape is rejected.
func decodeDateTime(v string) (string, bool) {
	switch {
	case len(v) >= 15 && strings.Contains(v, "T"):
		t, err := time.Parse("20060102150405", v[:8]+v[9:15])
		if err != nil {
			return "", false
		}
		return t.Format(isoDateTime), true
	case len(v) == 8:
		t, err := time.Parse(compactDate, v)
		if err != nil {
			return "", false
		}
		return t.Format(isoDate), true
	}
	return "", false
}

// encodeDate converts an ISO date to the compact 8-digit form.
func encodeDate(iso string) (string, bool) {
	t, err := time.Parse(isoDate, iso)
	if err != nil {
		return "", false
	}
	return t.Format(compactDate), true
}

// encodeDateTime converts an ISO date or date-time to compact form. A bare
// date stays date-only; a date-time gains the T separator and UTC marker.
func encodeDateTime(iso string) (string, bool) {
	if t, err := time.Parse(isoDate, iso); err == nil {
		return t.Format(compactDate), true
	}
	if t, err := time.Parse(isoDateTime, iso); err == nil {
		return t.Format(compactDateTime), true
	}
	return "", false
}
