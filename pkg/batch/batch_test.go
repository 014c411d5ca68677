package batch_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlanalyser/internal/testutil"
	"github.com/leapstack-labs/sqlanalyser/pkg/batch"
	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/dialects/plsql"
)

func newAnalyser() *plsql.Analyser {
	return plsql.NewAnalyser(plsql.Options{}, nil)
}

func TestRun_OrderAndIsolation(t *testing.T) {
	var units []batch.Unit
	for i := range 20 {
		units = append(units, batch.Unit{
			ID:  fmt.Sprintf("p%02d.sql", i),
			SQL: fmt.Sprintf("CREATE PROCEDURE p%02d AS BEGIN NULL; END;", i),
		})
	}
	units[7].SQL = "CREATE PROCEDURE broken AS BEGIN"

	results, err := batch.Run(context.Background(), newAnalyser(), units,
		batch.WithConcurrency(4), batch.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	require.Len(t, results, len(units))

	for i, r := range results {
		assert.Equal(t, units[i].ID, r.Unit.ID)
		if i == 7 {
			assert.False(t, r.OK())
			assert.NotNil(t, r.Analysis.Error)
			continue
		}
		require.True(t, r.OK(), "unit %s", r.Unit.ID)
		assert.Equal(t, fmt.Sprintf("p%02d", i), r.Analysis.Script.Common().Name.Symbol)
	}
}

func TestRun_Kinds(t *testing.T) {
	units := []batch.Unit{
		{ID: "view", Kind: core.ScriptView, SQL: "CREATE VIEW v AS SELECT 1 FROM dual"},
		{ID: "mismatch", Kind: core.ScriptTrigger, SQL: "CREATE VIEW v AS SELECT 1 FROM dual"},
		{ID: "unknown", Kind: "PACKAGE", SQL: "CREATE VIEW v AS SELECT 1 FROM dual"},
	}

	logger, rec := testutil.NewRecordingLogger(t)
	results, err := batch.Run(context.Background(), newAnalyser(), units, batch.WithLogger(logger))
	require.NoError(t, err)

	assert.True(t, results[0].OK())
	assert.Equal(t, core.ScriptView, results[0].Analysis.Script.Kind())

	assert.NoError(t, results[1].Err)
	assert.Nil(t, results[1].Analysis.Script)
	assert.Nil(t, results[1].Analysis.Error)

	assert.Error(t, results[2].Err)
	assert.False(t, results[2].OK())

	skipped := rec.Find("no unit of the requested kind")
	require.Len(t, skipped, 1)
	assert.Equal(t, "mismatch", skipped[0].Attrs["unit"])

	failed := rec.Find("unit not analysed")
	require.Len(t, failed, 1)
	assert.Equal(t, slog.LevelWarn, failed[0].Level)
	assert.Equal(t, "unknown", failed[0].Attrs["unit"])
}

func TestRun_Sink(t *testing.T) {
	units := []batch.Unit{
		{ID: "a", SQL: "CREATE PROCEDURE a AS BEGIN NULL; END;"},
		{ID: "b", SQL: "CREATE PROCEDURE b AS BEGIN NULL; END;"},
		{ID: "c", SQL: "CREATE PROCEDURE c AS BEGIN NULL; END;"},
	}

	var seen atomic.Int32
	_, err := batch.Run(context.Background(), newAnalyser(), units,
		batch.WithSink(func(r batch.Result) error {
			seen.Add(1)
			return nil
		}))
	require.NoError(t, err)
	assert.Equal(t, int32(3), seen.Load())
}

func TestRun_SinkError(t *testing.T) {
	units := []batch.Unit{{ID: "a", SQL: "CREATE PROCEDURE a AS BEGIN NULL; END;"}}
	boom := errors.New("disk full")

	_, err := batch.Run(context.Background(), newAnalyser(), units,
		batch.WithSink(func(batch.Result) error { return boom }))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "sink a")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	units := []batch.Unit{{ID: "a", SQL: "CREATE PROCEDURE a AS BEGIN NULL; END;"}}
	results, err := batch.Run(ctx, newAnalyser(), units)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Analysis.Script)
}

func TestRun_Empty(t *testing.T) {
	results, err := batch.Run(context.Background(), newAnalyser(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
