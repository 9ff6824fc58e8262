package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "audit_runs", cfg.Audit.OutputDir)
	assert.Equal(t, "rules", cfg.Audit.RulesDir)
	assert.Equal(t, "extracts", cfg.Audit.DashboardDir)
	assert.Equal(t, 600, cfg.Audit.ScopeTimeoutSecs)
	assert.Equal(t, 4, cfg.Audit.Parallelism)
	assert.InDelta(t, 10000, cfg.Audit.MinimumBase, 0.001)
	assert.Equal(t, 500, cfg.Source.PageSize)
	assert.Equal(t, "commission_audit.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
audit:
  output_dir: /var/audit
  parallelism: 2
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/audit", cfg.Audit.OutputDir)
	assert.Equal(t, 2, cfg.Audit.Parallelism)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "growth.json")
	doc := `{
  "scope": "growth",
  "vehicle_codes": ["GRW-A", "GRW-B"],
  "tolerance": 0.05,
  "aliases": {"JS Capital": "John Smith Capital Partners"},
  "governance": {
    "row_fallback_match_loose": {"max_count": "3", "expiry": "2030-01-01", "owner": "ops", "reason": "legacy names"}
  },
  "columns": {"name": "Client", "base_amount": "AUM", "commission_amount": "Commission", "rate_percent": "Rate"}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, "growth", rules.Scope)
	assert.Equal(t, []string{"GRW-A", "GRW-B"}, rules.VehicleCodes)
	assert.InDelta(t, 0.05, rules.Tolerance, 0.001)
	assert.Equal(t, MaxCount("3"), rules.Governance["row_fallback_match_loose"].MaxCount)
	assert.Equal(t, "Client", rules.Columns.Name)
}

func TestLoadRules_MaxCountForms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forms.json")
	doc := `{
  "scope": "growth",
  "governance": {
    "row_fallback_match_compact": {"max_count": 5, "owner": "ops", "reason": "backlog"},
    "row_fallback_match_loose": {"max_count": "7", "owner": "ops", "reason": "backlog"},
    "row_mapping_unresolved": {"max_count": "plenty", "owner": "ops", "reason": "backlog"}
  },
  "columns": {"name": "Client"}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	// Bare numbers and quoted strings both load; a non-numeric value still
	// loads and is left for governance to flag.
	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, MaxCount("5"), rules.Governance["row_fallback_match_compact"].MaxCount)
	assert.Equal(t, MaxCount("7"), rules.Governance["row_fallback_match_loose"].MaxCount)
	assert.Equal(t, MaxCount("plenty"), rules.Governance["row_mapping_unresolved"].MaxCount)
}

func TestLoadRules_MissingFileNamesPath(t *testing.T) {
	_, err := LoadRules("/nonexistent/growth.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/growth.json")
}

func TestLoadRules_NoScope(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"columns": {}}`), 0o644))

	_, err := LoadRules(path)
	assert.Error(t, err)
}

func TestLoadRules_SpreadFeeGap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gap.json")
	doc := `{"scope": "income", "check_spread_fee": true, "columns": {"name": "Client"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spread_fee")
}
