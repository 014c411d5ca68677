package catalog_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlanalyser/pkg/catalog"
	"github.com/leapstack-labs/sqlanalyser/pkg/core"
)

func TestStore_DatabaseErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		run       func(s *catalog.Store) error
		errMsg    string
	}{
		{
			name: "create run",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO runs").WillReturnError(assert.AnError)
			},
			run: func(s *catalog.Store) error {
				_, err := s.CreateRun(ctx, "plsql")
				return err
			},
			errMsg: "failed to create run",
		},
		{
			name: "save rolls back on failure",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO units").WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			run: func(s *catalog.Store) error {
				return s.SaveResult(ctx, "run", "u.sql", "x", core.AnalyseResult{
					Error: &core.SqlSyntaxError{Line: 1, Column: 1, Message: "bad"},
				})
			},
			errMsg: "failed to save unit u.sql",
		},
		{
			name: "callers query",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT DISTINCT u.name FROM resolved_calls").
					WithArgs("APP.RUN").
					WillReturnError(assert.AnError)
			},
			run: func(s *catalog.Store) error {
				_, err := s.GetCallers(ctx, "app.run")
				return err
			},
			errMsg: "failed to query catalog",
		},
		{
			name: "content hash",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT content_hash FROM units").WillReturnError(assert.AnError)
			},
			run: func(s *catalog.Store) error {
				_, err := s.GetContentHash(ctx, "u.sql")
				return err
			},
			errMsg: "failed to get content hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setupMock(mock)
			err = tt.run(catalog.NewWithDB(db, nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.ErrorIs(t, err, assert.AnError)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_CompleteRun_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("failed", sqlmock.AnyArg(), "r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = catalog.NewWithDB(db, nil).CompleteRun(context.Background(), "r1", catalog.RunStatusFailed)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListSyntaxErrors_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT unit_id, error_line, error_column, error_message FROM units").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"unit_id", "error_line", "error_column", "error_message"}).
			AddRow("a.sql", 3, 7, "expected END").
			AddRow("b.sql", 1, 1, "expected CREATE"))

	errs, err := catalog.NewWithDB(db, nil).ListSyntaxErrors(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, "a.sql", errs[0].UnitID)
	assert.Equal(t, core.SqlSyntaxError{Line: 3, Column: 7, Message: "expected END"}, errs[0].Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}
