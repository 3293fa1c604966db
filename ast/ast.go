// Package ast defines the abstract syntax tree representation of luax code.
//
// The tree is produced by an external parser and consumed read-only by the
// compiler. Ownership is strictly hierarchical: every child node belongs to
// exactly one parent, so the tree contains no sharing and no cycles. Nodes
// carry no type or position information; all values are dynamically typed at
// the VM level.
package ast

// Node represents a portion of the syntax tree.
type Node interface {
	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Lhs represents an assignable target: either a bare identifier or an
// index expression. Used as assignment destinations and as function and
// loop binding names.
type Lhs interface {
	Node
	lhsNode()
}

// Block is an ordered sequence of statements. It is the unit of lexical
// scoping for control-flow bodies.
type Block struct {
	Stmts []Stmt
}

func (b *Block) String() string {
	var out []byte
	for i, stmt := range b.Stmts {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, stmt.String()...)
	}
	return string(out)
}
