// Package normalize coerces raw heterogeneous cell values into comparable
// typed forms: amounts, dates, currency codes, and name keys.
package normalize

import "strings"

// sentinelTokens are placeholder labels that appear inside numeric and date
// columns of the operations extract. They must never be coerced into values.
var sentinelTokens = map[string]struct{}{
	"tbd":             {},
	"tbc":             {},
	"to be filled in": {},
	"to fill in":      {},
	"a completer":     {},
	"à compléter":     {},
	"n/a":             {},
	"na":              {},
	"none":            {},
	"pending":         {},
	"isin tbd":        {},
	"no isin":         {},
	"-":               {},
	"--":              {},
	"?":               {},
	"??":              {},
}

// IsSentinel reports whether the cell content is a known placeholder token
// rather than real data.
func IsSentinel(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	_, ok := sentinelTokens[s]
	return ok
}
