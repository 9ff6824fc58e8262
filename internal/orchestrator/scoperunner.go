package orchestrator

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sells-group/commission-audit/internal/audit"
	"github.com/sells-group/commission-audit/internal/config"
	"github.com/sells-group/commission-audit/internal/db"
	"github.com/sells-group/commission-audit/internal/ingest"
	"github.com/sells-group/commission-audit/internal/model"
)

const defaultTable = "commissions"

// AuditScopeRunner is the production ScopeRunner: it loads the scope's
// rules document and runs a full audit against the spreadsheet extract and
// the system of record.
type AuditScopeRunner struct {
	cfg      config.AuditConfig
	source   config.SourceConfig
	registry *model.RuleRegistry
	pool     db.Pool
}

// NewAuditScopeRunner wires the production scope runner.
func NewAuditScopeRunner(cfg config.AuditConfig, source config.SourceConfig, registry *model.RuleRegistry, pool db.Pool) *AuditScopeRunner {
	return &AuditScopeRunner{cfg: cfg, source: source, registry: registry, pool: pool}
}

// RunScope implements ScopeRunner.
func (r *AuditScopeRunner) RunScope(ctx context.Context, entry ScopeEntry, log *zap.Logger) (*model.ScopeRunResult, error) {
	rules, err := config.LoadRules(entry.RulesFile)
	if err != nil {
		return nil, err
	}

	dash := dashboardFile{
		path:  filepath.Join(r.cfg.DashboardDir, rules.Scope+".xlsx"),
		sheet: rules.Sheet,
	}
	table := rules.Table
	if table == "" {
		table = defaultTable
	}
	database := tableSource{
		reader: ingest.NewDatabaseReader(r.pool, r.source.PageSize),
		table:  table,
	}

	return audit.NewRunner(r.cfg, rules, r.registry, dash, database, log).Run(ctx)
}

type dashboardFile struct {
	path  string
	sheet string
}

func (d dashboardFile) ReadDashboard(scope string) ([]model.RawRecord, error) {
	return ingest.ReadDashboard(d.path, d.sheet, scope)
}

type tableSource struct {
	reader *ingest.DatabaseReader
	table  string
}

func (t tableSource) ReadDatabase(ctx context.Context, scope string) ([]model.RawRecord, error) {
	return t.reader.Read(ctx, t.table, scope)
}
