package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/commission-audit/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func writeWorkbook(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	s, err := f.AddSheet(sheet)
	require.NoError(t, err)
	for _, cells := range rows {
		row := s.AddRow()
		for _, v := range cells {
			row.AddCell().Value = v
		}
	}
	path := filepath.Join(t.TempDir(), "extract.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadDashboard(t *testing.T) {
	path := writeWorkbook(t, "GRW", [][]string{
		{"Client", "AUM", "Commission"},
		{"John Smith", "10,000", "200"},
		{"Jane Doe", "- $1,250.50", "25"},
	})

	records, err := ReadDashboard(path, "GRW", "growth")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, model.SourceDashboard, records[0].Source)
	assert.Equal(t, "growth", records[0].Scope)
	assert.Equal(t, "John Smith", records[0].Fields["Client"])
	assert.Equal(t, "- $1,250.50", records[1].Fields["AUM"])
}

func TestReadDashboard_SkipsEmptyRows(t *testing.T) {
	path := writeWorkbook(t, "GRW", [][]string{
		{"Client", "AUM"},
		{"", ""},
		{"John Smith", "10"},
	})

	records, err := ReadDashboard(path, "GRW", "growth")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReadDashboard_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, "GRW", [][]string{{"Client"}})

	_, err := ReadDashboard(path, "INC", "income")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INC")
}

func TestReadDashboard_MissingFileNamesPath(t *testing.T) {
	_, err := ReadDashboard("/nonexistent/extract.xlsx", "GRW", "growth")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/extract.xlsx")
}
