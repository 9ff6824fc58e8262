package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/commission-audit/internal/store"
)

func TestFormatRunsList(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	runs := []store.RunRecord{
		{
			ID:           "0a1b2c3d-4e5f-6789-abcd-ef0123456789",
			Kind:         store.KindScope,
			Scope:        "growth",
			FailCount:    2,
			WarningCount: 5,
			ReportPath:   "/tmp/audit/growth/report.json",
			CreatedAt:    created,
		},
	}

	var b strings.Builder
	formatRunsList(&b, runs)
	out := b.String()

	assert.Contains(t, out, "0a1b2c3d")
	assert.NotContains(t, out, "4e5f-6789")
	assert.Contains(t, out, "growth")
	assert.Contains(t, out, "2026-03-14 09:30")
	assert.Contains(t, out, "/tmp/audit/growth/report.json")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("123456789"))
}
