// Package rules resolves the versioned rule catalog from dated
// documentation sources and the canonical coverage matrix, with conflict
// detection. Resolution is read-only over the filesystem and deterministic:
// unchanged inputs produce identical rules and conflicts, timestamp aside.
package rules

import (
	"encoding/csv"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/commission-audit/internal/model"
)

var (
	isoDateRe     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	compactDateRe = regexp.MustCompile(`\d{8}`)
)

// Resolver scans a fixed precedence-ordered list of documentation roots and
// one canonical coverage matrix.
type Resolver struct {
	roots      []string
	matrixPath string
}

// NewResolver creates a Resolver. Roots are in precedence order.
func NewResolver(roots []string, matrixPath string) *Resolver {
	return &Resolver{roots: roots, matrixPath: matrixPath}
}

// sourceDoc is one dated rule document found under a root.
type sourceDoc struct {
	path string
	date string // ISO form
}

// docDate extracts an embedded date from a filename: ISO first, then
// compact 8-digit. Returns "" when the name carries no parseable date.
func docDate(name string) string {
	if m := isoDateRe.FindString(name); m != "" {
		if _, err := time.Parse("2006-01-02", m); err == nil {
			return m
		}
	}
	if m := compactDateRe.FindString(name); m != "" {
		if t, err := time.Parse("20060102", m); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// scanRoot collects dated documents under one root, newest first.
func scanRoot(root string) ([]sourceDoc, error) {
	var docs []sourceDoc
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if date := docDate(d.Name()); date != "" {
			docs = append(docs, sourceDoc{path: path, date: date})
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "rules: scan root %s", root)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].date != docs[j].date {
			return docs[i].date > docs[j].date
		}
		return docs[i].path < docs[j].path
	})
	return docs, nil
}

// matrixRow is one declared rule-per-scope pairing from the coverage matrix.
type matrixRow struct {
	id           string
	scope        string
	description  string
	engineStatus string
}

// loadMatrix reads the coverage matrix CSV. A missing matrix stops the run
// with the offending path.
func loadMatrix(path string) ([]matrixRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: coverage matrix %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "rules: coverage matrix %s: read header", path)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"rule_id", "scope", "description"} {
		if _, ok := col[required]; !ok {
			return nil, eris.Errorf("rules: coverage matrix %s: missing column %q", path, required)
		}
	}

	var rows []matrixRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "rules: coverage matrix %s: read row", path)
		}
		row := matrixRow{
			id:          strings.TrimSpace(rec[col["rule_id"]]),
			scope:       strings.TrimSpace(rec[col["scope"]]),
			description: strings.TrimSpace(rec[col["description"]]),
		}
		if i, ok := col["engine_status"]; ok && i < len(rec) {
			row.engineStatus = strings.TrimSpace(rec[i])
		}
		if row.id != "" {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Resolve scans all roots, reads the coverage matrix, groups entries by
// rule id, and emits the registry artifact. Conflicting descriptions are
// recorded, never auto-resolved by picking a winner.
func (r *Resolver) Resolve() (*model.RuleRegistry, error) {
	log := zap.L().With(zap.String("component", "rules.resolver"))

	var allDocs []sourceDoc
	for _, root := range r.roots {
		docs, err := scanRoot(root)
		if err != nil {
			return nil, err
		}
		allDocs = append(allDocs, docs...)
	}

	// The newest-dated document across all roots stamps resolved rules;
	// root precedence breaks date ties.
	var newest sourceDoc
	for _, d := range allDocs {
		if d.date > newest.date {
			newest = d
		}
	}

	matrix, err := loadMatrix(r.matrixPath)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]matrixRow)
	var order []string
	for _, row := range matrix {
		if _, seen := grouped[row.id]; !seen {
			order = append(order, row.id)
		}
		grouped[row.id] = append(grouped[row.id], row)
	}
	sort.Strings(order)

	reg := &model.RuleRegistry{
		GeneratedAt:         time.Now().UTC(),
		CoverageMatrixFile:  r.matrixPath,
		SourceOrder:         r.roots,
		SourcesScannedCount: len(allDocs),
		Conflicts:           []model.RuleConflict{},
		Rules:               []model.RuleRecord{},
	}

	for _, id := range order {
		rows := grouped[id]

		descriptions := distinct(rows, func(m matrixRow) string { return m.description })
		scopes := distinct(rows, func(m matrixRow) string { return m.scope })

		if len(descriptions) > 1 {
			reg.Conflicts = append(reg.Conflicts, model.RuleConflict{
				ID:           id,
				Descriptions: descriptions,
				Scopes:       scopes,
			})
			continue
		}

		status := model.RuleActive
		if s := strings.ToLower(rows[0].engineStatus); s == "superseded" || s == "retired" {
			status = model.RuleSuperseded
		}
		reg.Rules = append(reg.Rules, model.RuleRecord{
			ID:            id,
			Scope:         strings.Join(scopes, ","),
			Description:   rows[0].description,
			EffectiveDate: newest.date,
			SourceFile:    newest.path,
			Status:        status,
			EngineStatus:  rows[0].engineStatus,
		})
	}

	log.Info("rule registry resolved",
		zap.Int("sources_scanned", reg.SourcesScannedCount),
		zap.Int("rules", len(reg.Rules)),
		zap.Int("conflicts", len(reg.Conflicts)),
	)

	return reg, nil
}

// distinct returns the unique values of f over rows, first-seen order.
func distinct(rows []matrixRow, f func(matrixRow) string) []string {
	seen := make(map[string]struct{}, len(rows))
	var out []string
	for _, row := range rows {
		v := f(row)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
