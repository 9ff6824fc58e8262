package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey_OrderIndependent(t *testing.T) {
	assert.Equal(t, CanonicalKey("John Smith"), CanonicalKey("Smith John"))
	assert.NotEmpty(t, CanonicalKey("John Smith"))
}

func TestCanonicalKey_StopwordsAndPlurals(t *testing.T) {
	assert.Equal(t, CanonicalKey("The Growth Funds of Europe"), CanonicalKey("europe growth fund"))
}

func TestCanonicalKey_PunctuationAndAmpersand(t *testing.T) {
	// "&" becomes "and", which is then filtered as a stopword.
	assert.Equal(t, CanonicalKey("Smith & Jones"), CanonicalKey("smith jones"))
	assert.Equal(t, CanonicalKey("Smith-Jones"), CanonicalKey("Jones, Smith"))
}

func TestCanonicalKey_Honorifics(t *testing.T) {
	assert.Equal(t, CanonicalKey("Dr. John Smith"), CanonicalKey("john smith"))
	assert.Equal(t, CanonicalKey("Mrs Jane Doe"), CanonicalKey("jane doe"))
}

func TestCompactKey_OrderSensitive(t *testing.T) {
	assert.Equal(t, "johnsmith", CompactKey("John Smith"))
	assert.NotEqual(t, CompactKey("John Smith"), CompactKey("Smith John"))
}

func TestLooseKey_FirstAndLast(t *testing.T) {
	assert.Equal(t, "johnsmith", LooseKey("John Andrew Smith"))
	assert.Equal(t, "madoff", LooseKey("Madoff"))
	assert.Equal(t, "", LooseKey("  "))
}
