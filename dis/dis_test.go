package dis

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/luax-lang/luax/ast"
	"github.com/luax-lang/luax/compiler"
	"github.com/stretchr/testify/require"
)

func TestModuleDisassembly(t *testing.T) {
	// Disable colors for consistent test output
	color.NoColor = true
	defer func() { color.NoColor = false }()

	// local x = 1 + 2
	module, err := compiler.Compile(&ast.Block{Stmts: []ast.Stmt{
		&ast.Local{
			Targets: []ast.Lhs{&ast.Ident{Name: "x"}},
			Values: []ast.Expr{&ast.Infix{
				X:  &ast.Number{Value: 1},
				Op: "+",
				Y:  &ast.Number{Value: 2},
			}},
		},
	}})
	require.Nil(t, err)

	expected := strings.TrimSpace(`
function __main__ (id=0, params=0, locals=1)
  block 0:
    LOAD_FLOAT 1
    LOAD_FLOAT 2
    ROTATE2
    ADD
    SET_LOCAL 0
    LOAD_NULL
    RETURN
`)
	require.Equal(t, expected+"\n", Sprint(module))
}

func TestClosureDisassembly(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	// local x = 1
	// local f = function() return x end
	module, err := compiler.Compile(&ast.Block{Stmts: []ast.Stmt{
		&ast.Local{
			Targets: []ast.Lhs{&ast.Ident{Name: "x"}},
			Values:  []ast.Expr{&ast.Number{Value: 1}},
		},
		&ast.Local{
			Targets: []ast.Lhs{&ast.Ident{Name: "f"}},
			Values: []ast.Expr{&ast.Function{
				Body: &ast.Block{Stmts: []ast.Stmt{
					&ast.Return{Values: []ast.Expr{&ast.Ident{Name: "x"}}},
				}},
			}},
		},
	}})
	require.Nil(t, err)

	out := Sprint(module)
	require.Contains(t, out, "function <anonymous> (id=0, params=0, locals=0)")
	require.Contains(t, out, "  upvalue 0: local 0 (x)")
	require.Contains(t, out, "GET_UPVALUE 0")
	require.Contains(t, out, "function __main__ (id=1, params=0, locals=2)")
	require.Contains(t, out, "LOAD_FUNCTION 0")
}

func TestBranchOperandsRendered(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	// while c do break end
	module, err := compiler.Compile(&ast.Block{Stmts: []ast.Stmt{
		&ast.While{
			Cond: &ast.Ident{Name: "c"},
			Body: &ast.Block{Stmts: []ast.Stmt{&ast.Break{}}},
		},
	}})
	require.Nil(t, err)

	out := Sprint(module)
	require.Contains(t, out, "CONDITIONAL_BRANCH 3 5")
	require.Contains(t, out, `LOAD_STRING "c"`)
	require.Contains(t, out, "  block 5:")
}
