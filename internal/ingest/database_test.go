package ingest

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/commission-audit/internal/model"
)

func TestDatabaseReader_SinglePage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT \* FROM commissions WHERE scope = \$1`).
		WithArgs("growth", 500, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "client_name", "commission_amount"}).
			AddRow(int64(1), "John Smith", 200.0).
			AddRow(int64(2), "Jane Doe", 25.0))

	reader := NewDatabaseReader(mock, 0)
	records, err := reader.Read(context.Background(), "commissions", "growth")
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, model.SourceDatabase, records[0].Source)
	assert.Equal(t, "John Smith", records[0].Fields["client_name"])
	assert.Equal(t, 25.0, records[1].Fields["commission_amount"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseReader_Paginates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT \* FROM commissions`).
		WithArgs("growth", 2, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "client_name"}).
			AddRow(int64(1), "a").
			AddRow(int64(2), "b"))
	mock.ExpectQuery(`SELECT \* FROM commissions`).
		WithArgs("growth", 2, 2).
		WillReturnRows(pgxmock.NewRows([]string{"id", "client_name"}).
			AddRow(int64(3), "c"))

	reader := NewDatabaseReader(mock, 2)
	records, err := reader.Read(context.Background(), "commissions", "growth")
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseReader_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT \* FROM commissions`).
		WithArgs("growth", 500, 0).
		WillReturnError(assert.AnError)

	reader := NewDatabaseReader(mock, 500)
	_, err = reader.Read(context.Background(), "commissions", "growth")
	assert.Error(t, err)
}
