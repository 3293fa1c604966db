package ast

import (
	"bytes"
	"strconv"
	"strings"
)

// Nil is the nil literal.
type Nil struct{}

func (x *Nil) exprNode() {}

func (x *Nil) String() string { return "nil" }

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

func (x *Bool) exprNode() {}

func (x *Bool) String() string { return strconv.FormatBool(x.Value) }

// Number is a numeric literal. All numbers are floats.
type Number struct {
	Value float64
}

func (x *Number) exprNode() {}

func (x *Number) String() string { return strconv.FormatFloat(x.Value, 'g', -1, 64) }

// String is a string literal.
type String struct {
	Value string
}

func (x *String) exprNode() {}

func (x *String) String() string { return strconv.Quote(x.Value) }

// Dots is the vararg marker ("..."). The compiler rejects it.
type Dots struct{}

func (x *Dots) exprNode() {}

func (x *Dots) String() string { return "..." }

// Ident is an expression node that refers to a variable by name. It also
// serves as the identifier form of an assignable target.
type Ident struct {
	Name string
}

func (x *Ident) exprNode() {}
func (x *Ident) lhsNode()  {}

func (x *Ident) String() string { return x.Name }

// Infix is an operator expression where the operator is between the operands.
// Examples include "x + y" and "a .. b".
type Infix struct {
	X  Expr   // left operand
	Op string // operator: "+", "-", "==", "..", etc.
	Y  Expr   // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Prefix is an operator expression where the operator precedes the operand.
// Boolean negation ("not x") is the only supported form.
type Prefix struct {
	Op string // operator: "not"
	X  Expr   // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.Op)
	out.WriteString(" ")
	out.WriteString(x.X.String())
	out.WriteString(")")
	return out.String()
}

// Function is a function literal: an ordered parameter list and a body block.
// Parameters must be plain identifiers; the compiler rejects anything else.
type Function struct {
	Params []Lhs
	Body   *Block
}

func (x *Function) exprNode() {}

func (x *Function) String() string {
	var out bytes.Buffer
	params := make([]string, 0, len(x.Params))
	for _, p := range x.Params {
		params = append(params, p.String())
	}
	out.WriteString("function(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")\n")
	out.WriteString(x.Body.String())
	out.WriteString("\nend")
	return out.String()
}

// Table is a table literal. Elements are either plain values or Pair nodes.
type Table struct {
	Items []Expr
}

func (x *Table) exprNode() {}

func (x *Table) String() string {
	var out bytes.Buffer
	items := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		items = append(items, item.String())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(items, ", "))
	out.WriteString("}")
	return out.String()
}

// Pair is a key/value pair, as it appears inside a table literal.
type Pair struct {
	Key   Expr
	Value Expr
}

func (x *Pair) exprNode() {}

func (x *Pair) String() string {
	var out bytes.Buffer
	out.WriteString("[")
	out.WriteString(x.Key.String())
	out.WriteString("] = ")
	out.WriteString(x.Value.String())
	return out.String()
}

// Call is an expression node that describes the invocation of a function.
type Call struct {
	Fun  Expr
	Args []Expr
}

func (x *Call) exprNode() {}

func (x *Call) String() string {
	var out bytes.Buffer
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	out.WriteString(x.Fun.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// Index is an expression node that describes indexing on a value. It also
// serves as the index form of an assignable target.
type Index struct {
	X   Expr // target
	Key Expr // key
}

func (x *Index) exprNode() {}
func (x *Index) lhsNode()  {}

func (x *Index) String() string {
	var out bytes.Buffer
	out.WriteString(x.X.String())
	out.WriteString("[")
	out.WriteString(x.Key.String())
	out.WriteString("]")
	return out.String()
}
