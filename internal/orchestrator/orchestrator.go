package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/commission-audit/internal/config"
	"github.com/sells-group/commission-audit/internal/model"
)

// ScopeRunner executes one scope's audit. The log argument is the scope's
// dedicated file logger; everything the scope reports goes there.
type ScopeRunner interface {
	RunScope(ctx context.Context, entry ScopeEntry, log *zap.Logger) (*model.ScopeRunResult, error)
}

// Result bundles the aggregate report with the paths it was written to.
type Result struct {
	Report     *model.GlobalAuditReport
	ReportJSON string
	ReportMD   string
}

// Orchestrator fans scope audits out over a bounded worker pool and folds
// their results back together in registry order.
type Orchestrator struct {
	cfg      config.AuditConfig
	registry []ScopeEntry
	runner   ScopeRunner
	log      *zap.Logger
}

// New builds an orchestrator over the given registry. log may be nil.
func New(cfg config.AuditConfig, registry []ScopeEntry, runner ScopeRunner, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.L()
	}
	return &Orchestrator{
		cfg:      cfg,
		registry: registry,
		runner:   runner,
		log:      log.With(zap.String("component", "orchestrator")),
	}
}

// Run executes every registered scope and writes the global aggregate into a
// fresh timestamped run folder. A scope that fails to produce a result
// aborts the run before any aggregate is written; its log file holds the
// details. A scope that merely exceeds its time budget is recorded as a
// scope_failed_to_complete failure and stays part of the totals.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	started := time.Now().UTC()
	runID := uuid.New().String()
	runFolder := filepath.Join(o.cfg.OutputDir, "global",
		fmt.Sprintf("%s-%s", started.Format("20060102T150405Z"), runID[:8]))
	logDir := filepath.Join(runFolder, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "orchestrator: create run folder %s", runFolder)
	}

	o.log.Info("orchestrator run starting",
		zap.String("run_id", runID),
		zap.Int("scopes", len(o.registry)),
		zap.String("run_folder", runFolder),
	)

	results := make([]*model.ScopeRunResult, len(o.registry))

	g, gctx := errgroup.WithContext(ctx)
	limit := o.cfg.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, entry := range o.registry {
		g.Go(func() error {
			res, err := o.runScope(gctx, entry, filepath.Join(logDir, entry.Name+".log"))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	// A broken scope aborts here, before the global report exists. It is
	// never silently dropped from an aggregate.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := o.aggregate(started, runFolder, results)
	jsonPath, mdPath, err := writeGlobalReport(runFolder, report)
	if err != nil {
		return nil, err
	}

	o.log.Info("orchestrator run complete",
		zap.String("run_id", runID),
		zap.Int("total_fail_count", report.TotalFailCount),
		zap.Int("total_warning_count", report.TotalWarningCount),
		zap.Bool("all_scopes_pass", report.AllScopesPass),
	)

	return &Result{Report: report, ReportJSON: jsonPath, ReportMD: mdPath}, nil
}

// runScope executes one scope under its time budget, logging to its own
// file. Timeouts become a synthesized failed result; real errors propagate
// with the log path attached.
func (o *Orchestrator) runScope(ctx context.Context, entry ScopeEntry, logPath string) (*model.ScopeRunResult, error) {
	scopeLog, closeLog, err := newScopeLogger(logPath)
	if err != nil {
		return nil, err
	}
	defer closeLog()

	scopeCtx := ctx
	cancel := context.CancelFunc(func() {})
	if o.cfg.ScopeTimeoutSecs > 0 {
		scopeCtx, cancel = context.WithTimeout(ctx, time.Duration(o.cfg.ScopeTimeoutSecs)*time.Second)
	}
	defer cancel()

	scopeLog.Info("scope starting", zap.String("scope", entry.Name), zap.String("rules_file", entry.RulesFile))

	res, err := o.runner.RunScope(scopeCtx, entry, scopeLog)
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		scopeLog.Error("scope exceeded its time budget", zap.Error(err))
		return timedOutResult(entry.Name, logPath), nil
	case err != nil:
		scopeLog.Error("scope failed", zap.Error(err))
		return nil, eris.Wrapf(err, "orchestrator: scope %s failed, see %s", entry.Name, logPath)
	}

	// Completion contract: the scope must hand back an existing report file.
	if res.ReportJSON == "" {
		scopeLog.Error("scope returned no report path")
		return nil, eris.Errorf("orchestrator: scope %s returned no report path, see %s", entry.Name, logPath)
	}
	if _, statErr := os.Stat(res.ReportJSON); statErr != nil {
		scopeLog.Error("scope report file missing", zap.String("report_json", res.ReportJSON))
		return nil, eris.Errorf("orchestrator: scope %s report %s missing, see %s", entry.Name, res.ReportJSON, logPath)
	}

	res.LogPath = logPath
	return res, nil
}

// timedOutResult stands in for a scope that was cut off. It carries exactly
// one fail finding so the aggregate reflects the incomplete scope.
func timedOutResult(scope, logPath string) *model.ScopeRunResult {
	finding := model.Fail(scope, model.CheckScopeFailedToComplete,
		fmt.Sprintf("scope audit did not complete within its time budget, see %s", logPath))
	fail, warn, failBy, warnBy := model.CountBySeverity([]model.Finding{finding})
	return &model.ScopeRunResult{
		RunID:     uuid.New().String(),
		Scope:     scope,
		StartedAt: time.Now().UTC(),
		Summary: model.ScopeSummary{
			FailCount:    fail,
			WarningCount: warn,
			FailByCheck:  failBy,
			WarnByCheck:  warnBy,
		},
		Findings: []model.Finding{finding},
		LogPath:  logPath,
	}
}

// aggregate folds scope results in registry order.
func (o *Orchestrator) aggregate(started time.Time, runFolder string, results []*model.ScopeRunResult) *model.GlobalAuditReport {
	report := &model.GlobalAuditReport{
		GeneratedAt:   started,
		RunFolder:     runFolder,
		AllScopesPass: true,
		Scopes:        make([]model.ScopeRow, 0, len(results)),
	}
	for _, res := range results {
		report.TotalFailCount += res.Summary.FailCount
		report.TotalWarningCount += res.Summary.WarningCount
		if !res.Passed() {
			report.AllScopesPass = false
		}
		report.Scopes = append(report.Scopes, model.ScopeRow{
			Scope:        res.Scope,
			RunID:        res.RunID,
			FailCount:    res.Summary.FailCount,
			WarningCount: res.Summary.WarningCount,
			ReportJSON:   res.ReportJSON,
			WarnByCheck:  res.Summary.WarnByCheck,
		})
	}
	return report
}

// newScopeLogger builds a file-backed logger for one scope's run.
func newScopeLogger(path string) (*zap.Logger, func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "orchestrator: create scope log %s", path)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.InfoLevel)
	log := zap.New(core)

	return log, func() {
		_ = log.Sync()
		_ = f.Close()
	}, nil
}
