package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var numberRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParseAmount coerces a raw cell into a float64. It strips thousands
// separators, currency symbols and unit labels, and reattaches a detached
// leading minus sign (e.g. "- EUR 1,250.50" where the minus is separated
// from its magnitude by a currency label). Unparsable input yields 0.0,
// never an error: one bad cell must not abort a run.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if IsSentinel(s) {
		return 0.0
	}

	loc := numberRe.FindStringIndex(s)
	if loc == nil {
		return 0.0
	}

	digits := strings.ReplaceAll(s[loc[0]:loc[1]], ",", "")
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0.0
	}

	// A minus anywhere before the magnitude belongs to it, even when a
	// currency symbol or code sits in between.
	if strings.Contains(s[:loc[0]], "-") {
		v = -v
	}

	return v
}

// AmountValue coerces an untyped field value into a float64, accepting the
// numeric types ingestion readers produce as well as raw text.
func AmountValue(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0.0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		return ParseAmount(x)
	default:
		return 0.0
	}
}
