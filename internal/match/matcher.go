// Package match resolves cross-source entity identity using normalized
// name keys with tiered confidence. Keys are computed fresh from each run's
// inputs; there is no persistent name-to-id table to go stale.
package match

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/commission-audit/internal/model"
	"github.com/sells-group/commission-audit/internal/normalize"
)

// Matcher pairs dashboard records with database records for one scope.
type Matcher struct {
	scope string
	// aliases maps a dashboard canonical key to the database canonical key
	// it should resolve to, for names too divergent for any key tier.
	aliases map[string]string
}

// New creates a Matcher. The alias map comes from the scope's rules
// document and may be nil.
func New(scope string, aliases map[string]string) *Matcher {
	normalized := make(map[string]string, len(aliases))
	for from, to := range aliases {
		normalized[normalize.CanonicalKey(from)] = normalize.CanonicalKey(to)
	}
	return &Matcher{scope: scope, aliases: normalized}
}

// index holds per-tier lookups over the unmatched database records.
type index struct {
	byCanonical map[string][]int
	byCompact   map[string][]int
	byLoose     map[string][]int
	taken       []bool
}

func buildIndex(records []model.NormalizedRecord) *index {
	idx := &index{
		byCanonical: make(map[string][]int, len(records)),
		byCompact:   make(map[string][]int, len(records)),
		byLoose:     make(map[string][]int, len(records)),
		taken:       make([]bool, len(records)),
	}
	for i, r := range records {
		idx.byCanonical[r.Keys.Canonical] = append(idx.byCanonical[r.Keys.Canonical], i)
		idx.byCompact[r.Keys.Compact] = append(idx.byCompact[r.Keys.Compact], i)
		idx.byLoose[r.Keys.Loose] = append(idx.byLoose[r.Keys.Loose], i)
	}
	return idx
}

// unique returns the index of the single unmatched candidate for key, or -1
// when the key is absent or ambiguous among unmatched records.
func (idx *index) unique(m map[string][]int, key string) int {
	if key == "" {
		return -1
	}
	found := -1
	for _, i := range m[key] {
		if idx.taken[i] {
			continue
		}
		if found >= 0 {
			return -1
		}
		found = i
	}
	return found
}

// Match runs the tiered lookup over both record sets. Every pairing and
// every unresolved row is recorded; fallback-tier matches emit warning
// findings so governance can monitor how much matching relied on weaker
// tiers.
func (m *Matcher) Match(dashboard, database []model.NormalizedRecord) ([]model.MatchResult, []model.Finding) {
	idx := buildIndex(database)

	var results []model.MatchResult
	var findings []model.Finding

	for di := range dashboard {
		d := &dashboard[di]

		if i := idx.unique(idx.byCanonical, d.Keys.Canonical); i >= 0 {
			idx.taken[i] = true
			results = append(results, model.MatchResult{
				Dashboard: d,
				Database:  &database[i],
				Tier:      model.TierExactCanonical,
				Reason:    "canonical keys equal",
			})
			continue
		}

		if i := idx.unique(idx.byCompact, d.Keys.Compact); i >= 0 {
			idx.taken[i] = true
			results = append(results, model.MatchResult{
				Dashboard: d,
				Database:  &database[i],
				Tier:      model.TierCompact,
				Reason:    "compact keys equal",
			})
			findings = append(findings, model.Warn(m.scope, model.CheckRowFallbackMatchCompact,
				fmt.Sprintf("%q matched %q via compact key", d.Name, database[i].Name)))
			continue
		}

		if i := idx.unique(idx.byLoose, d.Keys.Loose); i >= 0 {
			idx.taken[i] = true
			results = append(results, model.MatchResult{
				Dashboard: d,
				Database:  &database[i],
				Tier:      model.TierLoose,
				Reason:    "loose keys equal",
			})
			findings = append(findings, model.Warn(m.scope, model.CheckRowFallbackMatchLoose,
				fmt.Sprintf("%q matched %q via loose first+last key", d.Name, database[i].Name)))
			continue
		}

		if target, ok := m.aliases[d.Keys.Canonical]; ok {
			if i := idx.unique(idx.byCanonical, target); i >= 0 {
				idx.taken[i] = true
				results = append(results, model.MatchResult{
					Dashboard: d,
					Database:  &database[i],
					Tier:      model.TierFallback,
					Reason:    "resolved via configured name alias",
				})
				findings = append(findings, model.Warn(m.scope, model.CheckRowFallbackMatchAlias,
					fmt.Sprintf("%q matched %q via name alias", d.Name, database[i].Name)))
				continue
			}
		}

		// Never guess: record the row unresolved.
		results = append(results, model.MatchResult{
			Dashboard: d,
			Reason:    "no database row matched at any tier",
		})
		findings = append(findings, model.Warn(m.scope, model.CheckRowMappingUnresolved,
			fmt.Sprintf("dashboard row %q has no database counterpart", d.Name)))
	}

	for i := range database {
		if idx.taken[i] {
			continue
		}
		results = append(results, model.MatchResult{
			Database: &database[i],
			Reason:   "no dashboard row matched at any tier",
		})
		findings = append(findings, model.Warn(m.scope, model.CheckRowMappingUnresolved,
			fmt.Sprintf("database row %q has no dashboard counterpart", database[i].Name)))
	}

	stats := model.DeriveMatchStats(results)
	zap.L().Debug("match pass complete",
		zap.String("component", "matcher"),
		zap.String("scope", m.scope),
		zap.Int("pairs", len(results)-stats.Unresolved),
		zap.Int("unresolved", stats.Unresolved),
		zap.Int("alias_resolved", stats.AliasResolved),
	)

	return results, findings
}
