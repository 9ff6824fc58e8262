package normalize

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. The two-digit-day layouts come before the
// ambiguous US layout so European extracts win where both parse.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2 January 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

// ParseDate tries multiple common formats and returns nil rather than an
// error on failure. Known sentinel tokens are rejected before parsing.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if IsSentinel(s) {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
