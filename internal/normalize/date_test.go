package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_ISO(t *testing.T) {
	d := ParseDate("2024-03-15")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *d)
}

func TestParseDate_Compact(t *testing.T) {
	d := ParseDate("20240315")
	require.NotNil(t, d)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
}

func TestParseDate_Slashed(t *testing.T) {
	d := ParseDate("15/03/2024")
	require.NotNil(t, d)
	assert.Equal(t, 15, d.Day())
}

func TestParseDate_Sentinel(t *testing.T) {
	assert.Nil(t, ParseDate("TBD"))
	assert.Nil(t, ParseDate("to be filled in"))
	assert.Nil(t, ParseDate(""))
}

func TestParseDate_Garbage(t *testing.T) {
	assert.Nil(t, ParseDate("next quarter sometime"))
}
