package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/commission-audit/internal/db"
	"github.com/sells-group/commission-audit/internal/model"
	"github.com/sells-group/commission-audit/internal/orchestrator"
	"github.com/sells-group/commission-audit/internal/rules"
	"github.com/sells-group/commission-audit/internal/store"
)

var auditCmd = &cobra.Command{
	Use:   "audit <scope>",
	Short: "Audit a single scope",
	Long:  "Runs the full reconciliation for one scope and writes its artifacts into a fresh timestamped run directory.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		scope := args[0]

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		registry, err := resolveRegistry()
		if err != nil {
			return err
		}

		pool, err := db.Connect(ctx, cfg.Source.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		runner := orchestrator.NewAuditScopeRunner(cfg.Audit, cfg.Source, registry, pool)
		entry := orchestrator.ScopeEntry{
			Name:      scope,
			RulesFile: filepath.Join(cfg.Audit.RulesDir, scope+".json"),
		}

		result, err := runner.RunScope(ctx, entry, zap.L())
		if err != nil {
			return err
		}

		if err := st.RecordRun(ctx, store.RunRecord{
			ID:           result.RunID,
			Kind:         store.KindScope,
			Scope:        scope,
			FailCount:    result.Summary.FailCount,
			WarningCount: result.Summary.WarningCount,
			ReportPath:   result.ReportJSON,
			CreatedAt:    result.StartedAt,
		}); err != nil {
			return err
		}

		// Completion contract for calling tooling.
		fmt.Printf("REPORT_JSON: %s\n", result.ReportJSON)
		fmt.Printf("FAIL_COUNT: %d\n", result.Summary.FailCount)
		fmt.Printf("WARNING_COUNT: %d\n", result.Summary.WarningCount)

		if !result.Passed() {
			return eris.Errorf("audit: scope %s has %d fail findings", scope, result.Summary.FailCount)
		}
		return nil
	},
}

// resolveRegistry rebuilds the rule registry from the documentation roots
// and the coverage matrix.
func resolveRegistry() (*model.RuleRegistry, error) {
	return rules.NewResolver(cfg.Audit.RuleDocRoots, cfg.Audit.CoverageMatrix).Resolve()
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
