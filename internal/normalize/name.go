package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// honorifics are stripped before key generation; they vary freely between
// the dashboard and the system of record.
var honorifics = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "mx": {}, "dr": {}, "prof": {}, "sir": {},
}

// stopwords are filtered from the canonical key only; the compact key keeps
// every token so word order and filler words still discriminate.
var stopwords = map[string]struct{}{
	"the": {}, "of": {}, "and": {}, "a": {}, "an": {},
}

var (
	namePunctRe = regexp.MustCompile(`[.,'"()/:;_]`)
	nameDashRe  = regexp.MustCompile(`[-–—]`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// nameTokens lower-cases a free-text name, unifies punctuation, ampersands
// and dashes, strips honorifics, and returns the remaining tokens.
func nameTokens(name string) []string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "&", " and ")
	s = namePunctRe.ReplaceAllString(s, " ")
	s = nameDashRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")

	var tokens []string
	for _, t := range strings.Fields(s) {
		if _, ok := honorifics[t]; ok {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// singular naively singularizes a token. Good enough for matching "funds"
// against "fund"; not a stemmer.
func singular(t string) string {
	if len(t) > 3 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss") {
		return t[:len(t)-1]
	}
	return t
}

// CanonicalKey is the highest-confidence, token-order-independent name key:
// stopwords filtered, tokens singularized, sorted, concatenated.
// CanonicalKey("John Smith") == CanonicalKey("Smith John").
func CanonicalKey(name string) string {
	var tokens []string
	for _, t := range nameTokens(name) {
		if _, ok := stopwords[t]; ok {
			continue
		}
		tokens = append(tokens, singular(t))
	}
	sort.Strings(tokens)
	return strings.Join(tokens, "")
}

// CompactKey keeps tokens in their original order, concatenated. Order
// sensitivity makes it a weaker tier than the canonical key.
func CompactKey(name string) string {
	return strings.Join(nameTokens(name), "")
}

// LooseKey keeps only the first and last token, for partial-name fallback
// matching. A single-token name is its own loose key.
func LooseKey(name string) string {
	tokens := nameTokens(name)
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0]
	default:
		return tokens[0] + tokens[len(tokens)-1]
	}
}
