package ast

// UsedVars returns the ordered sequence of identifier names referenced
// anywhere within the node, including inside nested function bodies.
// Duplicates are kept and names bound by inner scopes are not subtracted:
// this is a syntactic reference collector, not a free-variable computation.
// The compiler consumes the over-approximation to decide which outer-scope
// names a nested function must be prepared to capture; over-collecting is
// safe, under-collecting is not.
//
// The traversal order is fixed (children in declaration order) so the
// result is deterministic, but the order carries no other meaning.
func UsedVars(node Node) []string {
	switch n := node.(type) {
	case nil:
		return nil

	// Expressions
	case *Nil, *Dots, *Bool, *Number, *String:
		return nil
	case *Ident:
		return []string{n.Name}
	case *Infix:
		return pairVars(n.X, n.Y)
	case *Prefix:
		return UsedVars(n.X)
	case *Function:
		return append(lhsListVars(n.Params), UsedVars(n.Body)...)
	case *Table:
		return exprListVars(n.Items)
	case *Pair:
		return pairVars(n.Key, n.Value)
	case *Call:
		return append(UsedVars(n.Fun), exprListVars(n.Args)...)
	case *Index:
		return pairVars(n.X, n.Key)

	// Statements
	case *Block:
		return stmtListVars(n.Stmts)
	case *Do:
		return stmtListVars(n.Stmts)
	case *Set:
		return append(lhsListVars(n.Targets), exprListVars(n.Values)...)
	case *Local:
		return append(lhsListVars(n.Targets), exprListVars(n.Values)...)
	case *Localrec:
		return pairVars(n.Name, n.Value)
	case *While:
		return pairVars(n.Cond, n.Body)
	case *Repeat:
		return pairVars(n.Body, n.Cond)
	case *If:
		var vars []string
		for _, arm := range n.Arms {
			vars = append(vars, pairVars(arm.Cond, arm.Body)...)
		}
		if n.Else != nil {
			vars = append(vars, UsedVars(n.Else)...)
		}
		return vars
	case *Fornum:
		vars := pairVars(n.Var, n.Start)
		vars = append(vars, UsedVars(n.Stop)...)
		if n.Step != nil {
			vars = append(vars, UsedVars(n.Step)...)
		}
		return append(vars, UsedVars(n.Body)...)
	case *Forin:
		vars := lhsListVars(n.Names)
		vars = append(vars, exprListVars(n.Exprs)...)
		return append(vars, UsedVars(n.Body)...)
	case *Goto, *Label, *Break:
		return nil
	case *Return:
		return exprListVars(n.Values)
	case *CallStmt:
		return append(UsedVars(n.Target), exprListVars(n.Args)...)
	}
	return nil
}

func pairVars(left, right Node) []string {
	return append(UsedVars(left), UsedVars(right)...)
}

func exprListVars(exprs []Expr) []string {
	var vars []string
	for _, e := range exprs {
		vars = append(vars, UsedVars(e)...)
	}
	return vars
}

func lhsListVars(targets []Lhs) []string {
	var vars []string
	for _, l := range targets {
		vars = append(vars, UsedVars(l)...)
	}
	return vars
}

func stmtListVars(stmts []Stmt) []string {
	var vars []string
	for _, s := range stmts {
		vars = append(vars, UsedVars(s)...)
	}
	return vars
}
