package ingest

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/commission-audit/internal/db"
	"github.com/sells-group/commission-audit/internal/model"
)

// DatabaseReader pages through the relational system of record.
type DatabaseReader struct {
	pool     db.Pool
	pageSize int
}

// NewDatabaseReader creates a reader over the given pool. pageSize <= 0
// falls back to 500.
func NewDatabaseReader(pool db.Pool, pageSize int) *DatabaseReader {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &DatabaseReader{pool: pool, pageSize: pageSize}
}

// Read yields all rows of the given table for one scope as RawRecords,
// reading page by page. Column names become field keys.
func (r *DatabaseReader) Read(ctx context.Context, table, scope string) ([]model.RawRecord, error) {
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE scope = $1 ORDER BY id LIMIT $2 OFFSET $3", table)

	var records []model.RawRecord
	for offset := 0; ; offset += r.pageSize {
		page, err := r.readPage(ctx, query, scope, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, page...)
		if len(page) < r.pageSize {
			break
		}
	}

	zap.L().Debug("database rows read",
		zap.String("component", "ingest.database"),
		zap.String("table", table),
		zap.String("scope", scope),
		zap.Int("rows", len(records)),
	)
	return records, nil
}

func (r *DatabaseReader) readPage(ctx context.Context, query, scope string, offset int) ([]model.RawRecord, error) {
	rows, err := r.pool.Query(ctx, query, scope, r.pageSize, offset)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: query scope %s at offset %d", scope, offset)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	var page []model.RawRecord
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read row values")
		}
		fields := make(map[string]any, len(values))
		for i, v := range values {
			if i < len(descs) {
				fields[descs[i].Name] = v
			}
		}
		page = append(page, model.RawRecord{
			Source: model.SourceDatabase,
			Scope:  scope,
			Fields: fields,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "ingest: iterate rows")
	}
	return page, nil
}
