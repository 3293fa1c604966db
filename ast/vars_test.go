package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsedVarsLiterals(t *testing.T) {
	for _, node := range []Node{
		&Nil{},
		&Bool{Value: true},
		&Number{Value: 1},
		&String{Value: "s"},
		&Dots{},
		&Break{},
		&Goto{Label: "top"},
		&Label{Name: "top"},
	} {
		require.Nil(t, UsedVars(node), "%T", node)
	}
}

func TestUsedVarsKeepsDuplicates(t *testing.T) {
	// a + a
	vars := UsedVars(&Infix{
		X:  &Ident{Name: "a"},
		Op: "+",
		Y:  &Ident{Name: "a"},
	})
	require.Equal(t, []string{"a", "a"}, vars)
}

func TestUsedVarsOrder(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want []string
	}{
		{
			name: "set targets before values",
			node: &Set{
				Targets: []Lhs{&Ident{Name: "a"}, &Ident{Name: "b"}},
				Values:  []Expr{&Ident{Name: "c"}, &Ident{Name: "d"}},
			},
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "repeat body before condition",
			node: &Repeat{
				Body: &Block{Stmts: []Stmt{
					&CallStmt{Target: &Ident{Name: "f"}},
				}},
				Cond: &Ident{Name: "done"},
			},
			want: []string{"f", "done"},
		},
		{
			name: "fornum in declaration order",
			node: &Fornum{
				Var:   &Ident{Name: "i"},
				Start: &Ident{Name: "a"},
				Stop:  &Ident{Name: "b"},
				Step:  &Ident{Name: "c"},
				Body: &Block{Stmts: []Stmt{
					&CallStmt{Target: &Ident{Name: "f"}, Args: []Expr{&Ident{Name: "i"}}},
				}},
			},
			want: []string{"i", "a", "b", "c", "f", "i"},
		},
		{
			name: "index base before key",
			node: &Index{X: &Ident{Name: "t"}, Key: &Ident{Name: "k"}},
			want: []string{"t", "k"},
		},
		{
			name: "call callee before arguments",
			node: &Call{
				Fun:  &Ident{Name: "f"},
				Args: []Expr{&Ident{Name: "x"}, &Ident{Name: "y"}},
			},
			want: []string{"f", "x", "y"},
		},
		{
			name: "if arms then else",
			node: &If{
				Arms: []IfArm{
					{Cond: &Ident{Name: "a"}, Body: &Block{Stmts: []Stmt{
						&Return{Values: []Expr{&Ident{Name: "b"}}},
					}}},
					{Cond: &Ident{Name: "c"}, Body: &Block{}},
				},
				Else: &Block{Stmts: []Stmt{
					&Return{Values: []Expr{&Ident{Name: "d"}}},
				}},
			},
			want: []string{"a", "b", "c", "d"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, UsedVars(tt.node))
		})
	}
}

func TestUsedVarsCrossesFunctionBoundaries(t *testing.T) {
	// function(p) return p + q end
	fn := &Function{
		Params: []Lhs{&Ident{Name: "p"}},
		Body: &Block{Stmts: []Stmt{
			&Return{Values: []Expr{&Infix{
				X:  &Ident{Name: "p"},
				Op: "+",
				Y:  &Ident{Name: "q"},
			}}},
		}},
	}
	// parameters are collected too: the result over-approximates free
	// variables rather than subtracting bound names
	require.Equal(t, []string{"p", "p", "q"}, UsedVars(fn))

	// a statement containing the literal sees through it
	local := &Local{
		Targets: []Lhs{&Ident{Name: "f"}},
		Values:  []Expr{fn},
	}
	require.Equal(t, []string{"f", "p", "p", "q"}, UsedVars(local))
}

func TestUsedVarsTablePairs(t *testing.T) {
	node := &Table{Items: []Expr{
		&Ident{Name: "a"},
		&Pair{Key: &Ident{Name: "k"}, Value: &Ident{Name: "v"}},
	}}
	require.Equal(t, []string{"a", "k", "v"}, UsedVars(node))
}
