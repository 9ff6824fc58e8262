package audit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/commission-audit/internal/model"
)

const runStampLayout = "20060102T150405Z"

// writeArtifacts creates the scope's immutable run directory and writes the
// summary document, findings table, and machine-readable report into it.
func (r *Runner) writeArtifacts(result *model.ScopeRunResult) error {
	stamp := result.StartedAt.Format(runStampLayout)
	runDir := filepath.Join(r.cfg.OutputDir, result.Scope, fmt.Sprintf("%s-%s", stamp, result.RunID[:8]))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return eris.Wrapf(err, "audit: create run dir %s", runDir)
	}

	result.RunDir = runDir
	result.SummaryMD = filepath.Join(runDir, "summary.md")
	result.FindingsCSV = filepath.Join(runDir, "findings.csv")
	result.ReportJSON = filepath.Join(runDir, "report.json")

	if err := os.WriteFile(result.SummaryMD, []byte(formatSummary(result)), 0o644); err != nil {
		return eris.Wrap(err, "audit: write summary")
	}
	if err := writeFindingsCSV(result.FindingsCSV, result.Findings); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return eris.Wrap(err, "audit: marshal report")
	}
	if err := os.WriteFile(result.ReportJSON, data, 0o644); err != nil {
		return eris.Wrap(err, "audit: write report")
	}

	return nil
}

// formatSummary renders the human-readable scope summary.
func formatSummary(result *model.ScopeRunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Audit Report: %s\n", result.Scope)
	fmt.Fprintf(&b, "Run: %s\n", result.RunID)
	fmt.Fprintf(&b, "Started: %s\n\n", result.StartedAt.Format("2006-01-02 15:04:05 UTC"))

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Failures: %d\n", result.Summary.FailCount)
	fmt.Fprintf(&b, "- Warnings: %d\n", result.Summary.WarningCount)
	fmt.Fprintf(&b, "- Rules version: %s\n", result.Summary.RulesVersion)
	fmt.Fprintf(&b, "- Vehicle codes: %s\n\n", strings.Join(result.Summary.ScopeVehicleCodes, ", "))

	writeBreakdown(&b, "## Failures by check\n", result.Summary.FailByCheck)
	writeBreakdown(&b, "## Warnings by check\n", result.Summary.WarnByCheck)

	b.WriteString("## Findings\n")
	if len(result.Findings) == 0 {
		b.WriteString("No findings.\n")
	}
	for _, f := range result.Findings {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", f.Severity, f.Check, f.Message)
	}

	return b.String()
}

func writeBreakdown(b *strings.Builder, heading string, byCheck map[string]int) {
	if len(byCheck) == 0 {
		return
	}
	b.WriteString(heading)
	checks := make([]string, 0, len(byCheck))
	for c := range byCheck {
		checks = append(checks, c)
	}
	sort.Strings(checks)
	for _, c := range checks {
		fmt.Fprintf(b, "- %s: %d\n", c, byCheck[c])
	}
	b.WriteString("\n")
}

// writeFindingsCSV writes the flat findings table, one row per issue.
func writeFindingsCSV(path string, findings []model.Finding) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "audit: create findings table %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"scope", "check", "severity", "message"}); err != nil {
		return eris.Wrap(err, "audit: write findings header")
	}
	for _, finding := range findings {
		row := []string{finding.Scope, string(finding.Check), string(finding.Severity), finding.Message}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "audit: write finding row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "audit: flush findings table")
}
