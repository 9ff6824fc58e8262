// Package orchestrator runs every registered scope audit as an isolated
// unit of work and aggregates the results into one global report.
package orchestrator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ScopeEntry is one registered scope: its name and its rules document.
type ScopeEntry struct {
	Name      string
	RulesFile string
}

// LoadRegistry builds the scope registry from the rules directory. Every
// *.json file declares one scope; entries are ordered by file name so the
// aggregate report layout is deterministic.
func LoadRegistry(rulesDir string) ([]ScopeEntry, error) {
	entries, err := os.ReadDir(rulesDir)
	if err != nil {
		return nil, eris.Wrapf(err, "orchestrator: read rules dir %s", rulesDir)
	}

	var registry []ScopeEntry
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		registry = append(registry, ScopeEntry{
			Name:      strings.TrimSuffix(e.Name(), ".json"),
			RulesFile: filepath.Join(rulesDir, e.Name()),
		})
	}
	sort.Slice(registry, func(i, j int) bool { return registry[i].Name < registry[j].Name })

	if len(registry) == 0 {
		return nil, eris.Errorf("orchestrator: no scope rules found in %s", rulesDir)
	}
	return registry, nil
}
