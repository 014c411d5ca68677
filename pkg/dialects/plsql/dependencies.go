package plsql

import (
	"strings"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// extractRoutineCalls collects every routine referenced anywhere in unit:
// call statements and names applied to an argument list inside
// expressions. Built-in functions are not collected. A name whose first
// part is declared inside the unit is a collection access or method, not a
// call, and is skipped. Names are deduplicated case-insensitively and keep
// the order of their first occurrence.
func (b *builder) extractRoutineCalls(unit parsetree.Node) []core.TokenInfo {
	locals := b.localNames(unit)
	seen := make(map[string]bool)
	var out []core.TokenInfo

	add := func(n parsetree.Node) {
		name, at := routineName(n)
		if name == "" {
			return
		}
		head, _, _ := strings.Cut(name, ".")
		if locals[b.fold.String(head)] {
			return
		}
		key := b.fold.String(name)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, core.NewToken(name, core.TokenRoutineName, at.Span()))
	}

	unit.Walk(func(n parsetree.Node) bool {
		switch n.Kind() {
		case parsetree.KindFunctionCall:
			add(n)
		case parsetree.KindGeneralElementPart:
			if n.Child(parsetree.KindFunctionArgument).IsValid() {
				add(n)
			}
		}
		return true
	})
	return out
}

// localNames returns the case-folded names declared inside unit:
// parameters, variables, cursors, types, exceptions and loop indexes.
func (b *builder) localNames(unit parsetree.Node) map[string]bool {
	names := make(map[string]bool)
	unit.Walk(func(n parsetree.Node) bool {
		var id parsetree.Node
		switch n.Kind() {
		case parsetree.KindParameter:
			id = n.Child(parsetree.KindParameterName)
		case parsetree.KindVariableDeclaration, parsetree.KindCursorDeclaration,
			parsetree.KindExceptionDeclaration, parsetree.KindCursorLoopParam:
			id = n.Child(parsetree.KindIdentifier)
		case parsetree.KindTypeDeclaration:
			// TYPE name IS ...
			if ts := n.Terminals(); len(ts) > 1 {
				id = ts[1]
			}
		}
		if id.IsValid() {
			names[b.fold.String(id.Text())] = true
		}
		return true
	})
	return names
}
