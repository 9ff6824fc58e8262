package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency_Symbols(t *testing.T) {
	assert.Equal(t, "USD", Currency("$"))
	assert.Equal(t, "EUR", Currency("€ 1,250.50"))
	assert.Equal(t, "GBP", Currency("£250"))
}

func TestCurrency_EmbeddedCode(t *testing.T) {
	assert.Equal(t, "EUR", Currency("1 250,50 eur"))
	assert.Equal(t, "USD", Currency("amount in USD (net)"))
}

func TestCurrency_ExtensionCode(t *testing.T) {
	assert.Equal(t, "USDH", Currency("usdh"))
}

func TestCurrency_Empty(t *testing.T) {
	assert.Equal(t, "", Currency(""))
	assert.Equal(t, "", Currency("TBD"))
	assert.Equal(t, "", Currency("123.45"))
}
