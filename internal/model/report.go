package model

import "time"

// ScopeSummary is the machine-readable summary block of one scope run.
type ScopeSummary struct {
	FailCount         int            `json:"fail_count"`
	WarningCount      int            `json:"warning_count"`
	FailByCheck       map[string]int `json:"fail_by_check"`
	WarnByCheck       map[string]int `json:"warn_by_check"`
	MatchStats        MatchStats     `json:"match_stats"`
	RulesVersion      string         `json:"rules_version"`
	ScopeVehicleCodes []string       `json:"scope_vehicle_codes"`
}

// ScopeRunResult is the typed outcome of one scope audit, written once to
// an immutable timestamped run directory.
type ScopeRunResult struct {
	RunID       string       `json:"run_id"`
	Scope       string       `json:"scope"`
	StartedAt   time.Time    `json:"started_at"`
	Summary     ScopeSummary `json:"summary"`
	Findings    []Finding    `json:"findings"`
	RunDir      string       `json:"run_dir"`
	ReportJSON  string       `json:"report_json"`
	FindingsCSV string       `json:"findings_csv"`
	SummaryMD   string       `json:"summary_md"`
	LogPath     string       `json:"log_path,omitempty"`
}

// Passed reports whether the scope run had no fail-severity findings.
func (r *ScopeRunResult) Passed() bool {
	return r.Summary.FailCount == 0
}

// ScopeRow is one scope's line in the global aggregate.
type ScopeRow struct {
	Scope        string         `json:"scope"`
	RunID        string         `json:"run_id"`
	FailCount    int            `json:"fail_count"`
	WarningCount int            `json:"warning_count"`
	ReportJSON   string         `json:"report_json"`
	WarnByCheck  map[string]int `json:"warn_by_check"`
}

// GlobalAuditReport aggregates all scope runs of one orchestrator
// invocation. Created once per invocation into a fresh timestamped folder.
type GlobalAuditReport struct {
	GeneratedAt       time.Time  `json:"generated_at"`
	RunFolder         string     `json:"run_folder"`
	TotalFailCount    int        `json:"total_fail_count"`
	TotalWarningCount int        `json:"total_warning_count"`
	AllScopesPass     bool       `json:"all_scopes_pass"`
	Scopes            []ScopeRow `json:"scopes"`
}
