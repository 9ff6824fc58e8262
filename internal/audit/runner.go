package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/commission-audit/internal/config"
	"github.com/sells-group/commission-audit/internal/formula"
	"github.com/sells-group/commission-audit/internal/governance"
	"github.com/sells-group/commission-audit/internal/match"
	"github.com/sells-group/commission-audit/internal/model"
)

// DashboardSource yields raw dashboard rows for a scope.
type DashboardSource interface {
	ReadDashboard(scope string) ([]model.RawRecord, error)
}

// DatabaseSource yields raw system-of-record rows for a scope.
type DatabaseSource interface {
	ReadDatabase(ctx context.Context, scope string) ([]model.RawRecord, error)
}

// Runner audits one scope. It holds no mutable state between runs, so
// independent Runners are safe to execute concurrently.
type Runner struct {
	cfg       config.AuditConfig
	rules     *config.RulesDoc
	registry  *model.RuleRegistry
	dashboard DashboardSource
	database  DatabaseSource
	log       *zap.Logger
}

// NewRunner wires a scope audit. log may be nil, in which case the global
// logger is used.
func NewRunner(cfg config.AuditConfig, rules *config.RulesDoc, registry *model.RuleRegistry, dashboard DashboardSource, database DatabaseSource, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.L()
	}
	return &Runner{
		cfg:       cfg,
		rules:     rules,
		registry:  registry,
		dashboard: dashboard,
		database:  database,
		log:       log.With(zap.String("component", "audit"), zap.String("scope", rules.Scope)),
	}
}

// Run executes the scope audit and writes its artifacts into a fresh
// timestamped run directory. Data problems become findings; only setup and
// I/O problems return an error.
func (r *Runner) Run(ctx context.Context) (*model.ScopeRunResult, error) {
	scope := r.rules.Scope
	started := time.Now().UTC()
	runID := uuid.New().String()

	r.log.Info("scope audit starting", zap.String("run_id", runID))

	rawDash, err := r.dashboard.ReadDashboard(scope)
	if err != nil {
		return nil, err
	}
	rawDB, err := r.database.ReadDatabase(ctx, scope)
	if err != nil {
		return nil, err
	}

	dash := make([]model.NormalizedRecord, len(rawDash))
	for i, raw := range rawDash {
		dash[i] = projectDashboard(raw, r.rules.Columns)
	}
	dbRecs := make([]model.NormalizedRecord, len(rawDB))
	for i, raw := range rawDB {
		dbRecs[i] = projectDatabase(raw)
	}

	matcher := match.New(scope, r.rules.Aliases)
	results, findings := matcher.Match(dash, dbRecs)

	findings = append(findings, r.verifyFormulas(results)...)

	// Governance runs over the warning counts accumulated so far.
	_, _, _, warnByCheck := model.CountBySeverity(findings)
	findings = append(findings, governance.Evaluate(scope, warnByCheck, r.rules.Governance, time.Now().UTC())...)

	failCount, warnCount, failByCheck, warnByCheck := model.CountBySeverity(findings)
	result := &model.ScopeRunResult{
		RunID:     runID,
		Scope:     scope,
		StartedAt: started,
		Summary: model.ScopeSummary{
			FailCount:         failCount,
			WarningCount:      warnCount,
			FailByCheck:       failByCheck,
			WarnByCheck:       warnByCheck,
			MatchStats:        model.DeriveMatchStats(results),
			RulesVersion:      r.registry.Version(),
			ScopeVehicleCodes: r.rules.VehicleCodes,
		},
		Findings: findings,
	}

	if err := r.writeArtifacts(result); err != nil {
		return nil, err
	}

	r.log.Info("scope audit complete",
		zap.String("run_id", runID),
		zap.Int("fail_count", failCount),
		zap.Int("warning_count", warnCount),
		zap.String("report_json", result.ReportJSON),
	)

	return result, nil
}

// tolerance returns the scope's absolute tolerance for amount comparisons.
func (r *Runner) tolerance() float64 {
	if r.rules.Tolerance > 0 {
		return r.rules.Tolerance
	}
	return formula.DefaultTolerance
}

func (r *Runner) ratePolicy(field string) formula.RatePolicy {
	if p, ok := r.rules.RatePolicies[field]; ok {
		return formula.RatePolicy(p)
	}
	return formula.PolicyAuto
}

// verifyFormulas checks every resolved pairing's derived amounts against
// its declared rates. Mismatches beyond tolerance are fail findings and are
// never auto-corrected.
func (r *Runner) verifyFormulas(results []model.MatchResult) []model.Finding {
	scope := r.rules.Scope
	tol := r.tolerance()

	var findings []model.Finding
	for _, pair := range results {
		if !pair.Resolved() {
			continue
		}
		d, b := pair.Dashboard, pair.Database

		// Tier basis must agree before rate formulas are comparable.
		if d.TierLabel != "" && b.TierLabel != "" && d.TierLabel != b.TierLabel {
			findings = append(findings, model.Warn(scope, model.CheckTierBasisMismatch,
				fmt.Sprintf("%q: dashboard tier %q vs database tier %q", d.Name, d.TierLabel, b.TierLabel)))
		}

		if percent := d.Amount(fieldPercent); percent != 0 {
			res := formula.CheckAmountFromPercentPolicy(
				d.Amount(fieldBase), percent, d.Amount(fieldCommission), tol, r.ratePolicy(fieldPercent))
			if !res.OK {
				findings = append(findings, model.Fail(scope, model.CheckCommissionFormulaMismatch,
					fmt.Sprintf("%q: expected %.2f from rate %.4f, dashboard shows %.2f",
						d.Name, res.Expected, res.RateFraction, res.Actual)))
			}
			if formula.PercentCopiedIntoAmount(percent, d.Amount(fieldCommission), d.Amount(fieldBase), r.cfg.MinimumBase) {
				findings = append(findings, model.Warn(scope, model.CheckPercentCopiedIntoAmount,
					fmt.Sprintf("%q: commission amount %.4f equals rate percent on a %.0f base",
						d.Name, d.Amount(fieldCommission), d.Amount(fieldBase))))
			}
		}

		if bps := b.Amount(fieldBPS); bps != 0 {
			res := formula.CheckAmountFromBPS(b.Amount(fieldBase), bps, b.Amount(fieldCommission), tol)
			if !res.OK {
				findings = append(findings, model.Fail(scope, model.CheckCommissionBPSMismatch,
					fmt.Sprintf("%q: expected %.2f from %.0f bps, database shows %.2f",
						b.Name, res.Expected, bps, res.Actual)))
			}
		} else if percent := b.Amount(fieldPercent); percent != 0 {
			res := formula.CheckAmountFromPercentPolicy(
				b.Amount(fieldBase), percent, b.Amount(fieldCommission), tol, r.ratePolicy(fieldPercent))
			if !res.OK {
				findings = append(findings, model.Fail(scope, model.CheckCommissionFormulaMismatch,
					fmt.Sprintf("%q: expected %.2f from rate %.4f, database shows %.2f",
						b.Name, res.Expected, res.RateFraction, res.Actual)))
			}
		}
	}

	return findings
}
