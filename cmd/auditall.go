package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/commission-audit/internal/db"
	"github.com/sells-group/commission-audit/internal/orchestrator"
	"github.com/sells-group/commission-audit/internal/store"
)

var auditAllParallel int

var auditAllCmd = &cobra.Command{
	Use:   "audit-all",
	Short: "Audit every registered scope",
	Long:  "Runs every scope in the rules directory and aggregates the results into one global report.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		registry, err := resolveRegistry()
		if err != nil {
			return err
		}

		scopes, err := orchestrator.LoadRegistry(cfg.Audit.RulesDir)
		if err != nil {
			return err
		}

		pool, err := db.Connect(ctx, cfg.Source.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		auditCfg := cfg.Audit
		if auditAllParallel > 0 {
			auditCfg.Parallelism = auditAllParallel
		}

		runner := orchestrator.NewAuditScopeRunner(auditCfg, cfg.Source, registry, pool)
		result, err := orchestrator.New(auditCfg, scopes, runner, zap.L()).Run(ctx)
		if err != nil {
			return err
		}
		report := result.Report

		for _, row := range report.Scopes {
			if err := st.RecordRun(ctx, store.RunRecord{
				ID:           row.RunID,
				Kind:         store.KindScope,
				Scope:        row.Scope,
				FailCount:    row.FailCount,
				WarningCount: row.WarningCount,
				ReportPath:   row.ReportJSON,
				CreatedAt:    report.GeneratedAt,
			}); err != nil {
				return err
			}
		}
		if err := st.RecordRun(ctx, store.RunRecord{
			ID:           uuid.New().String(),
			Kind:         store.KindGlobal,
			Detail:       report.RunFolder,
			FailCount:    report.TotalFailCount,
			WarningCount: report.TotalWarningCount,
			ReportPath:   result.ReportJSON,
			CreatedAt:    report.GeneratedAt,
		}); err != nil {
			return err
		}

		// Completion contract for calling tooling.
		fmt.Printf("RUN_FOLDER: %s\n", report.RunFolder)
		fmt.Printf("REPORT_JSON: %s\n", result.ReportJSON)
		fmt.Printf("REPORT_MD: %s\n", result.ReportMD)
		fmt.Printf("TOTAL_FAIL_COUNT: %d\n", report.TotalFailCount)
		fmt.Printf("TOTAL_WARNING_COUNT: %d\n", report.TotalWarningCount)

		if !report.AllScopesPass {
			return eris.Errorf("audit-all: %d fail findings across scopes", report.TotalFailCount)
		}
		return nil
	},
}

func init() {
	auditAllCmd.Flags().IntVar(&auditAllParallel, "parallel", 0, "max scopes to run concurrently (0 uses the configured default)")
	rootCmd.AddCommand(auditAllCmd)
}
