package ast

import (
	"bytes"
	"strings"
)

// Do is a statement grouping construct. It introduces no scope of its own;
// scoping belongs to whichever construct owns the group.
type Do struct {
	Stmts []Stmt
}

func (s *Do) stmtNode() {}

func (s *Do) String() string {
	var out bytes.Buffer
	out.WriteString("do\n")
	for _, stmt := range s.Stmts {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	out.WriteString("end")
	return out.String()
}

// Set is a multi-target assignment. The target and value lists must have
// equal lengths; the compiler rejects a mismatch.
type Set struct {
	Targets []Lhs
	Values  []Expr
}

func (s *Set) stmtNode() {}

func (s *Set) String() string {
	return joinLhs(s.Targets) + " = " + joinExprs(s.Values)
}

// Local declares new local variables. Declarations always create fresh
// bindings, shadowing any existing variable of the same name.
type Local struct {
	Targets []Lhs
	Values  []Expr
}

func (s *Local) stmtNode() {}

func (s *Local) String() string {
	return "local " + joinLhs(s.Targets) + " = " + joinExprs(s.Values)
}

// Localrec declares a recursive local function: the name is bound before
// the value expression is compiled, so the body may refer to itself.
type Localrec struct {
	Name  Lhs
	Value Expr
}

func (s *Localrec) stmtNode() {}

func (s *Localrec) String() string {
	return "local function " + s.Name.String() + " = " + s.Value.String()
}

// While is a while loop.
type While struct {
	Cond Expr
	Body *Block
}

func (s *While) stmtNode() {}

func (s *While) String() string {
	var out bytes.Buffer
	out.WriteString("while ")
	out.WriteString(s.Cond.String())
	out.WriteString(" do\n")
	out.WriteString(s.Body.String())
	out.WriteString("\nend")
	return out.String()
}

// Repeat is a repeat/until loop. The body runs at least once; the condition
// is checked at the bottom and a true result exits the loop.
type Repeat struct {
	Body *Block
	Cond Expr
}

func (s *Repeat) stmtNode() {}

func (s *Repeat) String() string {
	var out bytes.Buffer
	out.WriteString("repeat\n")
	out.WriteString(s.Body.String())
	out.WriteString("\nuntil ")
	out.WriteString(s.Cond.String())
	return out.String()
}

// IfArm is one condition/body arm of an if/elseif chain.
type IfArm struct {
	Cond Expr
	Body *Block
}

// If is an if/elseif chain with an optional else block.
type If struct {
	Arms []IfArm
	Else *Block // nil if absent
}

func (s *If) stmtNode() {}

func (s *If) String() string {
	var out bytes.Buffer
	for i, arm := range s.Arms {
		if i == 0 {
			out.WriteString("if ")
		} else {
			out.WriteString("\nelseif ")
		}
		out.WriteString(arm.Cond.String())
		out.WriteString(" then\n")
		out.WriteString(arm.Body.String())
	}
	if s.Else != nil {
		out.WriteString("\nelse\n")
		out.WriteString(s.Else.String())
	}
	out.WriteString("\nend")
	return out.String()
}

// Fornum is a numeric for loop with an optional step.
type Fornum struct {
	Var   Lhs
	Start Expr
	Stop  Expr
	Step  Expr // nil if absent
	Body  *Block
}

func (s *Fornum) stmtNode() {}

func (s *Fornum) String() string {
	var out bytes.Buffer
	out.WriteString("for ")
	out.WriteString(s.Var.String())
	out.WriteString(" = ")
	out.WriteString(s.Start.String())
	out.WriteString(", ")
	out.WriteString(s.Stop.String())
	if s.Step != nil {
		out.WriteString(", ")
		out.WriteString(s.Step.String())
	}
	out.WriteString(" do\n")
	out.WriteString(s.Body.String())
	out.WriteString("\nend")
	return out.String()
}

// Forin is a generic for loop over iterator expressions. Its data shape is
// part of the AST contract but the compiler does not lower it.
type Forin struct {
	Names []Lhs
	Exprs []Expr
	Body  *Block
}

func (s *Forin) stmtNode() {}

func (s *Forin) String() string {
	var out bytes.Buffer
	out.WriteString("for ")
	out.WriteString(joinLhs(s.Names))
	out.WriteString(" in ")
	out.WriteString(joinExprs(s.Exprs))
	out.WriteString(" do\n")
	out.WriteString(s.Body.String())
	out.WriteString("\nend")
	return out.String()
}

// Goto is a goto statement.
type Goto struct {
	Label string
}

func (s *Goto) stmtNode() {}

func (s *Goto) String() string { return "goto " + s.Label }

// Label is a goto target.
type Label struct {
	Name string
}

func (s *Label) stmtNode() {}

func (s *Label) String() string { return "::" + s.Name + "::" }

// Return is a return statement with zero or more values. The compiler only
// accepts zero or one.
type Return struct {
	Values []Expr
}

func (s *Return) stmtNode() {}

func (s *Return) String() string {
	if len(s.Values) == 0 {
		return "return"
	}
	return "return " + joinExprs(s.Values)
}

// Break exits the innermost enclosing loop.
type Break struct{}

func (s *Break) stmtNode() {}

func (s *Break) String() string { return "break" }

// CallStmt is a function call in statement position. Its single result
// value is discarded.
type CallStmt struct {
	Target Expr
	Args   []Expr
}

func (s *CallStmt) stmtNode() {}

func (s *CallStmt) String() string {
	return (&Call{Fun: s.Target, Args: s.Args}).String()
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

func joinLhs(targets []Lhs) string {
	parts := make([]string, 0, len(targets))
	for _, l := range targets {
		parts = append(parts, l.String())
	}
	return strings.Join(parts, ", ")
}
