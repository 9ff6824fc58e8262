package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var rulesOut string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the commission rule registry",
}

var rulesResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Rebuild the rule registry from documentation sources",
	Long:  "Scans the configured documentation roots against the coverage matrix and writes the deduplicated, conflict-aware registry artifact.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry, err := resolveRegistry()
		if err != nil {
			return err
		}

		out := rulesOut
		if out == "" {
			out = filepath.Join(cfg.Audit.OutputDir, "rule_registry.json")
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return eris.Wrapf(err, "rules: create output dir for %s", out)
		}

		data, err := json.MarshalIndent(registry, "", "  ")
		if err != nil {
			return eris.Wrap(err, "rules: marshal registry")
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return eris.Wrapf(err, "rules: write registry %s", out)
		}

		fmt.Printf("REGISTRY_JSON: %s\n", out)
		fmt.Printf("RULES_VERSION: %s\n", registry.Version())
		fmt.Printf("RULE_COUNT: %d\n", len(registry.Rules))
		fmt.Printf("CONFLICT_COUNT: %d\n", len(registry.Conflicts))
		return nil
	},
}

func init() {
	rulesResolveCmd.Flags().StringVar(&rulesOut, "out", "", "registry artifact path (defaults into the audit output dir)")
	rulesCmd.AddCommand(rulesResolveCmd)
	rootCmd.AddCommand(rulesCmd)
}
