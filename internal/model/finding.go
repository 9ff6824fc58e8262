package model

// Severity classifies a finding's impact on scope success.
type Severity string

const (
	// SeverityFail blocks scope success.
	SeverityFail Severity = "fail"
	// SeverityWarning is tracked separately and subject to governance.
	SeverityWarning Severity = "warning"
)

// Check identifies the audit check that produced a finding.
type Check string

const (
	// Matching checks.
	CheckRowMappingUnresolved    Check = "row_mapping_unresolved"
	CheckRowFallbackMatchCompact Check = "row_fallback_match_compact"
	CheckRowFallbackMatchLoose   Check = "row_fallback_match_loose"
	CheckRowFallbackMatchAlias   Check = "row_fallback_match_alias"

	// Commission formula checks.
	CheckCommissionFormulaMismatch Check = "commission_formula_mismatch"
	CheckCommissionBPSMismatch     Check = "commission_bps_mismatch"
	CheckPercentCopiedIntoAmount   Check = "percent_copied_into_amount"
	CheckTierBasisMismatch         Check = "tier_basis_mismatch"

	// Governance checks.
	CheckWarningThresholdExceeded Check = "warning_threshold_exceeded"
	CheckWarningThresholdInvalid  Check = "warning_threshold_invalid"
	CheckWarningExpiryInvalid     Check = "warning_expiry_invalid"
	CheckWarningAllowlistExpired  Check = "warning_allowlist_expired"
	CheckWarningOwnerMissing      Check = "warning_owner_missing"
	CheckWarningReasonMissing     Check = "warning_reason_missing"

	// Orchestration checks.
	CheckScopeFailedToComplete Check = "scope_failed_to_complete"
)

// Finding is one audit datum: a single issue discovered during a scope run.
// Fail-severity findings block scope success; warnings are tolerated only
// under governance policy.
type Finding struct {
	Scope    string   `json:"scope"`
	Check    Check    `json:"check"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Fail constructs a fail-severity finding.
func Fail(scope string, check Check, message string) Finding {
	return Finding{Scope: scope, Check: check, Severity: SeverityFail, Message: message}
}

// Warn constructs a warning-severity finding.
func Warn(scope string, check Check, message string) Finding {
	return Finding{Scope: scope, Check: check, Severity: SeverityWarning, Message: message}
}

// CountBySeverity tallies findings into fail/warning totals and per-check
// breakdowns. Breakdown maps are keyed by check name.
func CountBySeverity(findings []Finding) (failCount, warnCount int, failByCheck, warnByCheck map[string]int) {
	failByCheck = make(map[string]int)
	warnByCheck = make(map[string]int)
	for _, f := range findings {
		switch f.Severity {
		case SeverityFail:
			failCount++
			failByCheck[string(f.Check)]++
		case SeverityWarning:
			warnCount++
			warnByCheck[string(f.Check)]++
		}
	}
	return failCount, warnCount, failByCheck, warnByCheck
}
