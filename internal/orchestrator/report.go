package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/commission-audit/internal/model"
)

// writeGlobalReport writes the JSON aggregate and its Markdown mirror into
// the run folder.
func writeGlobalReport(runFolder string, report *model.GlobalAuditReport) (jsonPath, mdPath string, err error) {
	jsonPath = filepath.Join(runFolder, "report.json")
	mdPath = filepath.Join(runFolder, "report.md")

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", "", eris.Wrap(err, "orchestrator: marshal global report")
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", eris.Wrap(err, "orchestrator: write global report")
	}

	if err := os.WriteFile(mdPath, []byte(formatGlobalReport(report)), 0o644); err != nil {
		return "", "", eris.Wrap(err, "orchestrator: write global summary")
	}

	return jsonPath, mdPath, nil
}

// formatGlobalReport renders the human-readable aggregate.
func formatGlobalReport(report *model.GlobalAuditReport) string {
	var b strings.Builder

	b.WriteString("# Commission Audit: Global Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Run folder: %s\n\n", report.RunFolder)

	verdict := "FAIL"
	if report.AllScopesPass {
		verdict = "PASS"
	}
	b.WriteString("## Totals\n")
	fmt.Fprintf(&b, "- Verdict: %s\n", verdict)
	fmt.Fprintf(&b, "- Failures: %d\n", report.TotalFailCount)
	fmt.Fprintf(&b, "- Warnings: %d\n\n", report.TotalWarningCount)

	b.WriteString("## Scopes\n")
	b.WriteString("| Scope | Failures | Warnings | Report |\n")
	b.WriteString("|-------|----------|----------|--------|\n")
	for _, row := range report.Scopes {
		fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", row.Scope, row.FailCount, row.WarningCount, row.ReportJSON)
	}
	b.WriteString("\n")

	for _, row := range report.Scopes {
		if len(row.WarnByCheck) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### Warnings: %s\n", row.Scope)
		checks := make([]string, 0, len(row.WarnByCheck))
		for c := range row.WarnByCheck {
			checks = append(checks, c)
		}
		sort.Strings(checks)
		for _, c := range checks {
			fmt.Fprintf(&b, "- %s: %d\n", c, row.WarnByCheck[c])
		}
		b.WriteString("\n")
	}

	return b.String()
}
