package lineage

import (
	"errors"

	"github.com/leapstack-labs/sqlanalyser/pkg/dag"
)

// Summary describes the shape of a call graph.
type Summary struct {
	Units       int        // analysed units
	External    []string   // routines called but not analysed
	EntryPoints []string   // analysed units no other unit calls
	Independent []string   // units that call nothing
	Levels      [][]string // units grouped by call depth, nil when Cycle is set
	Cycle       *dag.CycleError
}

// Summarise reports the entry points, external routines and call depth of g.
func Summarise(g *dag.Graph) Summary {
	var s Summary
	for _, n := range g.Nodes() {
		if n.External {
			s.External = append(s.External, n.ID)
		} else {
			s.Units++
		}
	}
	for _, id := range g.Leaves() {
		if n, _ := g.Node(id); !n.External {
			s.EntryPoints = append(s.EntryPoints, id)
		}
	}
	s.Independent = g.Roots()

	levels, err := g.Levels()
	if !errors.As(err, &s.Cycle) {
		s.Levels = levels
	}
	return s
}

// Impact is the effect of changing a set of units.
type Impact struct {
	Changed  []string // changed units present in the graph
	Affected []string // changed units and every unit that reaches them
	Order    []string // Affected, callees first
}

// ImpactOf returns the units to re-check after the named units change.
// Names are matched through UnitID; unknown names are ignored. A call
// cycle among the affected units is returned as a *dag.CycleError.
func ImpactOf(g *dag.Graph, changed []string) (*Impact, error) {
	impact := &Impact{}
	ids := make([]string, 0, len(changed))
	for _, name := range changed {
		id := UnitID(name)
		if _, ok := g.Node(id); ok {
			ids = append(ids, id)
			impact.Changed = append(impact.Changed, id)
		}
	}

	impact.Affected = g.Affected(ids)
	order, err := g.Subgraph(impact.Affected).Order()
	if err != nil {
		return nil, err
	}
	for _, n := range order {
		impact.Order = append(impact.Order, n.ID)
	}
	return impact, nil
}

// Dependencies returns every routine the named unit calls directly or
// transitively.
func Dependencies(g *dag.Graph, name string) []string {
	return g.Upstream(UnitID(name))
}
