package plsql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/dialect"
	"github.com/leapstack-labs/sqlanalyser/pkg/dialects/plsql"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		want    plsql.Options
		wantErr bool
	}{
		{
			name: "empty",
			want: plsql.Options{},
		},
		{
			name: "all fields",
			params: map[string]any{
				"print_routines": []any{"logger.", "DBMS_OUTPUT"},
				"strict_names":   true,
			},
			want: plsql.Options{PrintRoutines: []string{"logger.", "DBMS_OUTPUT"}, StrictNames: true},
		},
		{
			name:   "weakly typed bool",
			params: map[string]any{"strict_names": "true"},
			want:   plsql.Options{StrictNames: true},
		},
		{
			name:    "unknown key",
			params:  map[string]any{"print_routine": "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := plsql.ParseOptions(tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "plsql options")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RejectsBadParams(t *testing.T) {
	_, err := dialect.New(plsql.Name, dialect.Config{Params: map[string]any{"nope": 1}})
	require.Error(t, err)
}

func TestStrictNames(t *testing.T) {
	src := `CREATE VIEW v AS SELECT x.a FROM (SELECT a FROM t) x`

	a, err := plsql.New(dialect.Config{Params: map[string]any{"strict_names": true}})
	require.NoError(t, err)

	res := a.AnalyseView(src)
	require.Nil(t, res.Error)
	require.NotNil(t, res.Script)

	q, ok := res.Script.Common().Statements[0].(*core.SelectStatement)
	require.True(t, ok)
	require.Len(t, q.FromItems, 1)
	require.NotNil(t, q.FromItems[0].SubSelectStatement)
	require.NotNil(t, q.FromItems[0].TableName)
	assert.Equal(t, "x", q.FromItems[0].TableName.Alias.Symbol)
}
