package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/currency"
)

// symbolCodes maps common currency symbols to their ISO codes.
var symbolCodes = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
	"₩": "KRW",
	"₹": "INR",
}

var currencyCodeRe = regexp.MustCompile(`\b[A-Za-z]{3,5}\b`)

// Currency normalizes a noisy currency cell into a 3-5 letter code, or ""
// when nothing recognizable is present. Symbols map to ISO codes; embedded
// alphabetic codes are extracted and 3-letter candidates validated against
// the ISO table.
func Currency(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || IsSentinel(s) {
		return ""
	}

	for sym, code := range symbolCodes {
		if strings.Contains(s, sym) {
			return code
		}
	}

	tokens := currencyCodeRe.FindAllString(s, -1)

	// Prefer a token that validates as an ISO code.
	for _, tok := range tokens {
		code := strings.ToUpper(tok)
		if len(code) == 3 {
			if _, err := currency.ParseISO(code); err == nil {
				return code
			}
		}
	}

	// 4-5 letter codes are extension codes used by the dashboard
	// (share-class suffixes); pass the first one through uppercased.
	for _, tok := range tokens {
		if len(tok) > 3 {
			return strings.ToUpper(tok)
		}
	}

	return ""
}
