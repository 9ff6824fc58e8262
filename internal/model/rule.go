package model

import "time"

// RuleStatus marks whether a resolved rule is current.
type RuleStatus string

const (
	RuleActive     RuleStatus = "active"
	RuleSuperseded RuleStatus = "superseded"
)

// RuleRecord is one resolved business rule. Regenerated by re-scanning the
// documentation sources each run; never edited in place.
type RuleRecord struct {
	ID            string     `json:"id"`
	Scope         string     `json:"scope"`
	Description   string     `json:"description"`
	EffectiveDate string     `json:"effective_date,omitempty"`
	SourceFile    string     `json:"source_file"`
	Status        RuleStatus `json:"status"`
	EngineStatus  string     `json:"engine_status,omitempty"`
}

// RuleConflict records a rule id whose descriptions disagree across sources.
// Conflicts are never auto-resolved by picking a winner.
type RuleConflict struct {
	ID           string   `json:"id"`
	Descriptions []string `json:"descriptions"`
	Scopes       []string `json:"scopes,omitempty"`
}

// RuleRegistry is the deterministic rule-resolution artifact. Resolving the
// same inputs twice yields identical Rules and Conflicts content; only
// GeneratedAt differs.
type RuleRegistry struct {
	GeneratedAt         time.Time      `json:"generated_at"`
	CoverageMatrixFile  string         `json:"coverage_matrix_file"`
	SourceOrder         []string       `json:"source_order"`
	SourcesScannedCount int            `json:"sources_scanned_count"`
	Conflicts           []RuleConflict `json:"conflicts"`
	Rules               []RuleRecord   `json:"rules"`
}

// Version derives a short registry version string from the newest source
// document stamped onto the resolved rules, used in scope summaries.
func (r *RuleRegistry) Version() string {
	newest := ""
	for _, rule := range r.Rules {
		if rule.EffectiveDate > newest {
			newest = rule.EffectiveDate
		}
	}
	if newest == "" {
		return "unversioned"
	}
	return newest
}
