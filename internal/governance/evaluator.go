// Package governance applies organizational policy to tolerated warnings.
// Every warning a scope tolerates must carry a threshold, an unexpired
// allowance, an owner, and a rationale, or it surfaces as a governance
// failure.
package governance

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sells-group/commission-audit/internal/config"
	"github.com/sells-group/commission-audit/internal/model"
)

const expiryLayout = "2006-01-02"

// Evaluate checks per-check warning counts against the scope's governance
// policy. Violations come back as fail-severity findings.
func Evaluate(scope string, warnCounts map[string]int, policy map[string]config.WarnPolicy, now time.Time) []model.Finding {
	checks := make([]string, 0, len(warnCounts))
	for check, count := range warnCounts {
		if count > 0 {
			checks = append(checks, check)
		}
	}
	sort.Strings(checks)

	var findings []model.Finding
	for _, check := range checks {
		count := warnCounts[check]
		p := policy[check]

		if p.MaxCount != "" {
			threshold, err := strconv.Atoi(string(p.MaxCount))
			if err != nil {
				findings = append(findings, model.Fail(scope, model.CheckWarningThresholdInvalid,
					fmt.Sprintf("%s: configured threshold %q is not a valid number", check, p.MaxCount)))
			} else if count > threshold {
				findings = append(findings, model.Fail(scope, model.CheckWarningThresholdExceeded,
					fmt.Sprintf("%s: %d warnings exceed allowed %d", check, count, threshold)))
			}
		}

		if p.Expiry != "" {
			expiry, err := time.Parse(expiryLayout, p.Expiry)
			if err != nil {
				findings = append(findings, model.Fail(scope, model.CheckWarningExpiryInvalid,
					fmt.Sprintf("%s: expiry %q is not a valid YYYY-MM-DD date", check, p.Expiry)))
			} else if expiry.Before(now) {
				findings = append(findings, model.Fail(scope, model.CheckWarningAllowlistExpired,
					fmt.Sprintf("%s: warning allowance expired %s", check, p.Expiry)))
			}
		}

		if p.Owner == "" {
			findings = append(findings, model.Fail(scope, model.CheckWarningOwnerMissing,
				fmt.Sprintf("%s: tolerated warning has no owner", check)))
		}
		if p.Reason == "" {
			findings = append(findings, model.Fail(scope, model.CheckWarningReasonMissing,
				fmt.Sprintf("%s: tolerated warning has no rationale", check)))
		}
	}

	return findings
}
