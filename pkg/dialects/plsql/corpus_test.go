package plsql_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
)

type corpusCase struct {
	Name         string   `yaml:"name"`
	SQL          string   `yaml:"sql"`
	Kind         string   `yaml:"kind"`
	UnitName     string   `yaml:"unit_name"`
	Owner        string   `yaml:"owner"`
	Statements   []string `yaml:"statements"`
	RoutineCalls []string `yaml:"routine_calls"`
}

func loadCorpus(t *testing.T) []corpusCase {
	t.Helper()
	data, err := os.ReadFile("testdata/corpus.yaml")
	require.NoError(t, err)

	var cases []corpusCase
	require.NoError(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)
	return cases
}

func statementTypes(stmts []core.Statement) []string {
	var out []string
	for _, s := range stmts {
		out = append(out, strings.TrimPrefix(fmt.Sprintf("%T", s), "*core."))
	}
	return out
}

func TestCorpus(t *testing.T) {
	a := newAnalyser(t)

	for _, tc := range loadCorpus(t) {
		t.Run(tc.Name, func(t *testing.T) {
			res := a.AnalyseScript(tc.SQL)
			require.Nil(t, res.Error, "unexpected syntax error")
			require.NotNil(t, res.Script)

			assert.Equal(t, core.ScriptKind(tc.Kind), res.Script.Kind())

			common := res.Script.Common()
			assert.Equal(t, tc.UnitName, common.Name.Symbol)
			if tc.Owner != "" {
				require.NotNil(t, common.Owner)
				assert.Equal(t, tc.Owner, common.Owner.Symbol)
			} else {
				assert.Nil(t, common.Owner)
			}
			assert.Equal(t, tc.Statements, statementTypes(common.Statements))

			var calls []string
			for _, c := range common.RoutineCalls {
				calls = append(calls, c.Symbol)
			}
			assert.Equal(t, tc.RoutineCalls, calls)
		})
	}
}
