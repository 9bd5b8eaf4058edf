package vtodo

import (
	"strings"
	"unicode"
)

// Escape makes raw text safe for use as an iCalendar property value.
// Backslashes are doubled first so the sequences introduced by the later
// replacements are not escaped twice. Carriage returns, NULs and any other
// control characters except tab are discarded; such inputs do not round-trip.
func Escape(text string) string {
	s := strings.ReplaceAll(text, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\x00", "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Unescape reverses Escape. Doubled backslashes are collapsed repeatedly
// until stable, which normalizes over-escaped input from other producers.
// Both \n and \N expand to a line feed per RFC 5545.
func Unescape(text string) string {
	s := text
	for {
		collapsed := strings.ReplaceAll(s, `\\`, `\`)
		if collapsed == s {
			break
		}
		s = collapsed
	}
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\N`, "\n")
	s = strings.ReplaceAll(s, `\;`, ";")
	s = strings.ReplaceAll(s, `\,`, ",")
	return s
}
