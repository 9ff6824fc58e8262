package model

// MatchTier labels the confidence tier a cross-source pairing was resolved at.
type MatchTier string

const (
	TierExactCanonical MatchTier = "exact-canonical"
	TierCompact        MatchTier = "compact"
	TierLoose          MatchTier = "loose"
	// TierFallback covers pairings resolved through the configured
	// name-alias map rather than key equality.
	TierFallback MatchTier = "fallback"
)

// MatchResult pairs a dashboard record with a database record at a given
// confidence tier. Ambiguous or missing matches are still recorded: an
// unresolved row yields a MatchResult with a nil counterpart, never a
// silent drop.
type MatchResult struct {
	Dashboard *NormalizedRecord `json:"dashboard,omitempty"`
	Database  *NormalizedRecord `json:"database,omitempty"`
	Tier      MatchTier         `json:"tier,omitempty"`
	Reason    string            `json:"reason"`
}

// Resolved reports whether both sides of the pairing are present.
func (m MatchResult) Resolved() bool {
	return m.Dashboard != nil && m.Database != nil
}

// MatchStats are coverage statistics derived from a set of MatchResults.
// They are computed, never stored as mutable state. The commission counters
// track unmatched rows that carry a nonzero commission amount, per
// direction: unresolved money is worth more attention than unresolved
// zero-value rows.
type MatchStats struct {
	UnmatchedDashboard           int `json:"unmatched_dashboard"`
	UnmatchedDatabase            int `json:"unmatched_database"`
	UnmatchedDashboardCommission int `json:"unmatched_dashboard_commission"`
	UnmatchedDatabaseCommission  int `json:"unmatched_database_commission"`
	AliasResolved                int `json:"alias_resolved"`
	Unresolved                   int `json:"unresolved"`
}

// DeriveMatchStats computes coverage statistics for a set of match results.
func DeriveMatchStats(results []MatchResult) MatchStats {
	var s MatchStats
	for _, r := range results {
		switch {
		case r.Dashboard != nil && r.Database == nil:
			s.UnmatchedDashboard++
			s.Unresolved++
			if r.Dashboard.Amount(FieldCommissionAmount) != 0 {
				s.UnmatchedDashboardCommission++
			}
		case r.Database != nil && r.Dashboard == nil:
			s.UnmatchedDatabase++
			s.Unresolved++
			if r.Database.Amount(FieldCommissionAmount) != 0 {
				s.UnmatchedDatabaseCommission++
			}
		case r.Tier == TierFallback:
			s.AliasResolved++
		}
	}
	return s
}
