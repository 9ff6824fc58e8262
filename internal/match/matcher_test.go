package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/commission-audit/internal/model"
	"github.com/sells-group/commission-audit/internal/normalize"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func rec(source model.Source, name string) model.NormalizedRecord {
	return model.NormalizedRecord{
		Source: source,
		Scope:  "growth",
		Name:   name,
		Keys: model.NameKeys{
			Canonical: normalize.CanonicalKey(name),
			Compact:   normalize.CompactKey(name),
			Loose:     normalize.LooseKey(name),
		},
	}
}

func TestMatch_ExactCanonical(t *testing.T) {
	m := New("growth", nil)
	results, findings := m.Match(
		[]model.NormalizedRecord{rec(model.SourceDashboard, "Smith John")},
		[]model.NormalizedRecord{rec(model.SourceDatabase, "John Smith")},
	)

	require.Len(t, results, 1)
	assert.True(t, results[0].Resolved())
	assert.Equal(t, model.TierExactCanonical, results[0].Tier)
	assert.Empty(t, findings, "exact matches emit no findings")
}

func TestMatch_CompactFallbackWarns(t *testing.T) {
	// "The John Smith Fund" and "John Smith Fund" share a canonical key, so
	// force a compact-only pairing: same token order, different stopwords
	// make canonical collide only when compact differs. Use order-sensitive
	// names whose canonical keys differ.
	dash := rec(model.SourceDashboard, "alpha beta")
	db1 := rec(model.SourceDatabase, "alpha beta")
	// Remove the canonical route by perturbing the canonical key only.
	db1.Keys.Canonical = "somethingelse"

	m := New("growth", nil)
	results, findings := m.Match(
		[]model.NormalizedRecord{dash},
		[]model.NormalizedRecord{db1},
	)

	require.Len(t, results, 1)
	assert.Equal(t, model.TierCompact, results[0].Tier)
	require.Len(t, findings, 1)
	assert.Equal(t, model.CheckRowFallbackMatchCompact, findings[0].Check)
	assert.Equal(t, model.SeverityWarning, findings[0].Severity)
}

func TestMatch_LooseFallback(t *testing.T) {
	dash := rec(model.SourceDashboard, "John Smith")
	db := rec(model.SourceDatabase, "John Andrew Smith")

	m := New("growth", nil)
	results, findings := m.Match(
		[]model.NormalizedRecord{dash},
		[]model.NormalizedRecord{db},
	)

	require.Len(t, results, 1)
	assert.Equal(t, model.TierLoose, results[0].Tier)
	require.Len(t, findings, 1)
	assert.Equal(t, model.CheckRowFallbackMatchLoose, findings[0].Check)
}

func TestMatch_AliasFallback(t *testing.T) {
	dash := rec(model.SourceDashboard, "JS Capital")
	db := rec(model.SourceDatabase, "John Smith Capital Partners")

	m := New("growth", map[string]string{"JS Capital": "John Smith Capital Partners"})
	results, findings := m.Match(
		[]model.NormalizedRecord{dash},
		[]model.NormalizedRecord{db},
	)

	require.Len(t, results, 1)
	assert.Equal(t, model.TierFallback, results[0].Tier)
	require.Len(t, findings, 1)
	assert.Equal(t, model.CheckRowFallbackMatchAlias, findings[0].Check)
}

func TestMatch_UnresolvedBothDirections(t *testing.T) {
	// No shared tokens at any tier: first and last tokens differ, so even
	// the loose first+last key cannot pair these rows.
	dash := rec(model.SourceDashboard, "Orphan Alpha Dashboard")
	dash.Amounts = map[string]float64{model.FieldCommissionAmount: 125.50}
	db := rec(model.SourceDatabase, "Widget Beta Database")

	m := New("growth", nil)
	results, findings := m.Match(
		[]model.NormalizedRecord{dash},
		[]model.NormalizedRecord{db},
	)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Resolved())
	}
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, model.CheckRowMappingUnresolved, f.Check)
	}

	stats := model.DeriveMatchStats(results)
	assert.Equal(t, 1, stats.UnmatchedDashboard)
	assert.Equal(t, 1, stats.UnmatchedDatabase)
	assert.Equal(t, 2, stats.Unresolved)
	// Only the dashboard orphan carries commission money.
	assert.Equal(t, 1, stats.UnmatchedDashboardCommission)
	assert.Equal(t, 0, stats.UnmatchedDatabaseCommission)
}

func TestMatch_AmbiguousCanonicalFallsThrough(t *testing.T) {
	// Two database rows with the same canonical key: no unique canonical
	// match, but compact keys (order-sensitive) disambiguate.
	dash := rec(model.SourceDashboard, "john smith")
	db1 := rec(model.SourceDatabase, "john smith")
	db2 := rec(model.SourceDatabase, "smith john")

	m := New("growth", nil)
	results, findings := m.Match(
		[]model.NormalizedRecord{dash},
		[]model.NormalizedRecord{db1, db2},
	)

	var resolved int
	for _, r := range results {
		if r.Resolved() {
			resolved++
			assert.Equal(t, model.TierCompact, r.Tier)
			assert.Equal(t, "john smith", r.Database.Name)
		}
	}
	assert.Equal(t, 1, resolved)
	require.NotEmpty(t, findings)
	assert.Equal(t, model.CheckRowFallbackMatchCompact, findings[0].Check)
}
