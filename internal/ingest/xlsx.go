// Package ingest holds the thin ingestion collaborators: the spreadsheet
// extract reader and the relational system-of-record reader. Both yield
// RawRecords only; all typing happens downstream in the audit engine.
package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/commission-audit/internal/model"
)

// ReadDashboard reads one scope's rows from the operations spreadsheet
// extract. The named sheet carries a fixed column layout: the first row is
// the header, every following row becomes one RawRecord keyed by header.
func ReadDashboard(path, sheet, scope string) ([]model.RawRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open dashboard extract %s", path)
	}

	s, err := pickSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	if len(s.Rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(s.Rows[0].Cells))
	for i, cell := range s.Rows[0].Cells {
		header[i] = strings.TrimSpace(cell.String())
	}

	var records []model.RawRecord
	for _, row := range s.Rows[1:] {
		fields := make(map[string]any, len(header))
		empty := true
		for i, cell := range row.Cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			v := cell.String()
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			fields[header[i]] = v
		}
		if empty {
			continue
		}
		records = append(records, model.RawRecord{
			Source: model.SourceDashboard,
			Scope:  scope,
			Fields: fields,
		})
	}

	return records, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		s, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found", name)
		}
		return s, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: workbook has no sheets")
	}
	return f.Sheets[0], nil
}
