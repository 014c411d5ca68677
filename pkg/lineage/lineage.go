// Package lineage extracts table and routine references from analysed
// scripts and links units into a call graph.
//
// It works on the canonical model only, so any dialect analyser can feed
// it:
//
//	res := analyser.AnalyseProcedure(src)
//	refs := lineage.Extract(res.Script)
//	fmt.Println(refs.TablesRead, refs.RoutinesCalled)
package lineage

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/leapstack-labs/sqlanalyser/pkg/dag"
	"github.com/leapstack-labs/sqlanalyser/pkg/core"
)

// References describes what one script touches. Every list is
// deduplicated case-insensitively, keeps the spelling of the first
// occurrence and is sorted.
type References struct {
	Unit           string   // Qualified unit name
	TablesRead     []string // FROM and JOIN targets, CTE names excluded
	TablesWritten  []string // INSERT, UPDATE and DELETE targets
	RoutinesCalled []string // Call statements and routine references
	Cursors        []string // Declared cursors
}

// Extract collects the references of script. A nil script yields an empty
// result.
func Extract(script core.Script) *References {
	refs := &References{}
	if script == nil {
		return refs
	}
	common := script.Common()
	refs.Unit = common.QualifiedName()

	e := &extractor{
		read:    newNameSet(),
		written: newNameSet(),
		calls:   newNameSet(),
		cursors: newNameSet(),
		ctes:    make(map[string]bool),
	}

	// CTE names shadow tables anywhere in the unit.
	core.Inspect(common.Statements, func(s core.Statement) bool {
		if w, ok := s.(*core.WithStatement); ok {
			e.ctes[e.key(w.Name.Symbol)] = true
		}
		return true
	})

	core.Inspect(common.Statements, e.visit)
	for _, c := range common.RoutineCalls {
		e.calls.add(e.key(c.Symbol), c.Symbol)
	}

	refs.TablesRead = e.read.sorted()
	refs.TablesWritten = e.written.sorted()
	refs.RoutinesCalled = e.calls.sorted()
	refs.Cursors = e.cursors.sorted()
	return refs
}

type extractor struct {
	read    *nameSet
	written *nameSet
	calls   *nameSet
	cursors *nameSet
	ctes    map[string]bool
}

func (e *extractor) key(s string) string {
	return UnitID(s)
}

func (e *extractor) visit(s core.Statement) bool {
	switch s := s.(type) {
	case *core.SelectStatement:
		for _, item := range s.FromItems {
			if item.SubSelectStatement == nil {
				e.addRead(item.TableName)
			}
			for _, j := range item.JoinItems {
				if j.SubSelectStatement == nil {
					e.addRead(j.TableName)
				}
			}
		}
	case *core.InsertStatement:
		e.addTable(e.written, s.TableName)
	case *core.UpdateStatement:
		for i := range s.TableNames {
			e.addTable(e.written, &s.TableNames[i])
		}
	case *core.DeleteStatement:
		e.addTable(e.written, s.TableName)
	case *core.CallStatement:
		e.calls.add(e.key(s.Name.Symbol), s.Name.Symbol)
	case *core.DeclareCursorStatement:
		e.cursors.add(e.key(s.CursorName.Symbol), s.CursorName.Symbol)
	}
	return true
}

func (e *extractor) addRead(t *core.TableName) {
	if t == nil || t.Owner == nil && e.ctes[e.key(t.QualifiedName())] {
		return
	}
	e.addTable(e.read, t)
}

func (e *extractor) addTable(set *nameSet, t *core.TableName) {
	if name := t.QualifiedName(); name != "" {
		set.add(e.key(name), name)
	}
}

// nameSet keeps the first spelling seen for each folded key.
type nameSet struct {
	names map[string]string
}

func newNameSet() *nameSet {
	return &nameSet{names: make(map[string]string)}
}

func (s *nameSet) add(key, name string) {
	if name == "" {
		return
	}
	if _, ok := s.names[key]; !ok {
		s.names[key] = name
	}
}

func (s *nameSet) sorted() []string {
	keys := make([]string, 0, len(s.names))
	for k := range s.names {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.names[k]
	}
	return out
}

// =============================================================================
// Call Graph
// =============================================================================

// UnitID returns the key of a unit, routine or table name: the case-folded
// name in upper case. It is the key of call-graph nodes, catalog rows and
// the deduplication in Extract.
func UnitID(name string) string {
	return strings.ToUpper(cases.Fold().String(name))
}

// QualifyCall returns the key an unqualified call takes when resolved
// against the caller's owner, or "" when call is already qualified or the
// caller has no owner.
func QualifyCall(owner, call string) string {
	if owner == "" || call == "" || strings.Contains(call, ".") {
		return ""
	}
	return UnitID(owner + "." + call)
}

// BuildCallGraph links scripts by the routines they call. Each script is a
// node keyed by UnitID of its qualified name; an edge parent -> child means
// child calls parent. An unqualified call resolves against the caller's
// owner first. Calls that match no script become external nodes. Two
// scripts with the same qualified name are an error.
func BuildCallGraph(scripts []core.Script) (*dag.Graph, error) {
	g := dag.NewGraph()
	for _, s := range scripts {
		if s == nil {
			continue
		}
		id := UnitID(s.Common().QualifiedName())
		if _, exists := g.Node(id); exists {
			return nil, fmt.Errorf("duplicate unit %s", id)
		}
		g.AddNode(id, s)
	}

	for _, s := range scripts {
		if s == nil {
			continue
		}
		common := s.Common()
		caller := UnitID(common.QualifiedName())
		for _, call := range Extract(s).RoutinesCalled {
			callee := resolveCallee(g, common, call)
			g.AddExternal(callee)
			if err := g.AddEdge(callee, caller); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func resolveCallee(g *dag.Graph, caller *core.CommonScript, call string) string {
	id := UnitID(call)
	if n, ok := g.Node(id); ok && !n.External {
		return id
	}
	if caller.Owner == nil {
		return id
	}
	if owned := QualifyCall(caller.Owner.Symbol, call); owned != "" {
		if n, ok := g.Node(owned); ok && !n.External {
			return owned
		}
	}
	return id
}
