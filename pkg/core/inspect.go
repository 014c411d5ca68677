package core

// Inspect traverses stmts in depth-first order, calling fn for every
// statement including nested queries (cursor queries, WITH bodies, union
// branches, subqueries in FROM). If fn returns false the children of that
// statement are skipped.
func Inspect(stmts []Statement, fn func(Statement) bool) {
	for _, s := range stmts {
		inspect(s, fn)
	}
}

func inspect(s Statement, fn func(Statement) bool) {
	if s == nil || !fn(s) {
		return
	}
	switch s := s.(type) {
	case *SelectStatement:
		inspectSelect(s, fn)
	case *WithStatement:
		inspectQuery(s.SelectStatement, fn)
	case *UnionStatement:
		inspectQuery(s.SelectStatement, fn)
	case *InsertStatement:
		inspectQuery(s.SelectStatement, fn)
	case *DeclareCursorStatement:
		inspectQuery(s.SelectStatement, fn)
	case *IfStatement:
		for _, item := range s.Items {
			Inspect(item.Statements, fn)
		}
	case *CaseStatement:
		for _, item := range s.Items {
			Inspect(item.Statements, fn)
		}
	case *LoopStatement:
		Inspect(s.Statements, fn)
	case *ExceptionStatement:
		for _, item := range s.Items {
			Inspect(item.Statements, fn)
		}
	}
}

func inspectQuery(q *SelectStatement, fn func(Statement) bool) {
	if q != nil {
		inspect(q, fn)
	}
}

func inspectSelect(s *SelectStatement, fn func(Statement) bool) {
	for _, w := range s.WithStatements {
		inspect(w, fn)
	}
	for _, item := range s.FromItems {
		inspectQuery(item.SubSelectStatement, fn)
		for _, j := range item.JoinItems {
			inspectQuery(j.SubSelectStatement, fn)
		}
	}
	for _, u := range s.UnionStatements {
		inspect(u, fn)
	}
}
